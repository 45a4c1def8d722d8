package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	appConfig "github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/utils"
)

// CatalogService covers the product and category sheets: listing with the
// derived pipe formatting, simple appends, and whole-range updates. It
// keeps an in-memory snapshot of products and categories loaded at startup
// and refreshed on demand.
type CatalogService struct {
	store RowStoreInterface
	cfg   *appConfig.Config

	mu         sync.RWMutex
	products   []map[string]interface{}
	categories []map[string]string
}

var catalogInstance *CatalogService

// InitCatalogService builds the catalog service and loads the startup cache
func InitCatalogService() (*CatalogService, error) {
	svc := &CatalogService{store: GetRowStore(), cfg: appConfig.GetConfig()}
	if err := svc.Refresh(); err != nil {
		return nil, err
	}
	catalogInstance = svc
	return svc, nil
}

// GetCatalogService returns the initialized catalog service instance
func GetCatalogService() *CatalogService {
	return catalogInstance
}

// SetCatalogService sets the catalog service instance (primarily for testing)
func SetCatalogService(svc *CatalogService) {
	catalogInstance = svc
}

// NewCatalogService builds a catalog service without loading the cache
// (primarily for testing)
func NewCatalogService() *CatalogService {
	return &CatalogService{store: GetRowStore(), cfg: appConfig.GetConfig()}
}

// Refresh reloads the product and category caches from the store
func (s *CatalogService) Refresh() error {
	basic, err := s.readRecords(s.cfg.SheetBasic)
	if err != nil {
		return err
	}
	pipes, err := s.readRecords(s.cfg.SheetPipes)
	if err != nil {
		return err
	}
	categories, err := s.readRecords(s.cfg.SheetCategories)
	if err != nil {
		return err
	}

	products := make([]map[string]interface{}, 0, len(basic)+len(pipes))
	for _, rec := range basic {
		products = append(products, toProductView(rec))
	}
	for _, rec := range pipes {
		products = append(products, formatPipe(rec))
	}

	s.mu.Lock()
	s.products = products
	s.categories = categories
	s.mu.Unlock()

	log.Printf("Loaded %d products, %d categories", len(products), len(categories))
	return nil
}

// CachedCounts returns the cached product and category counts
func (s *CatalogService) CachedCounts() (products, categories int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), len(s.categories)
}

// Categories returns the current category rows
func (s *CatalogService) Categories() ([]map[string]string, error) {
	return s.readRecords(s.cfg.SheetCategories)
}

// AddCategory appends a category row
func (s *CatalogService) AddCategory(cat *models.Category) error {
	if strings.TrimSpace(cat.CategoryID) == "" {
		return fmt.Errorf("%w: category_id is required", ErrValidation)
	}
	row := []string{
		utils.Sanitize(cat.CategoryID),
		utils.Sanitize(cat.Name),
		utils.Sanitize(cat.Icon),
	}
	return s.store.Append(s.cfg.SheetCategories, [][]string{row})
}

// UpdateCategory rewrites the matching category row via a whole-range
// replacement
func (s *CatalogService) UpdateCategory(categoryID string, cat *models.Category) error {
	unlock := lockSheets(s.cfg.SheetCategories)
	defer unlock()

	header, rows, err := s.store.Read(s.cfg.SheetCategories)
	if err != nil {
		return err
	}
	found := false
	table := PlanUpdates(header, rows, func(rec map[string]string) bool {
		if rec["category_id"] == categoryID {
			found = true
			return true
		}
		return false
	}, func(rec map[string]string) map[string]string {
		rec["name"] = utils.Sanitize(cat.Name)
		rec["icon"] = utils.Sanitize(cat.Icon)
		return rec
	})
	if !found {
		return fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
	}
	return s.store.UpdateRange(s.cfg.SheetCategories, "", table)
}

// SaveBasicProduct appends a basic product row, resolving the category id
// to its display name when one matches
func (s *CatalogService) SaveBasicProduct(p *models.BasicProduct) error {
	categories, err := s.readRecords(s.cfg.SheetCategories)
	if err != nil {
		return err
	}
	categoryName := p.Category
	for _, cat := range categories {
		if strings.EqualFold(cat["category_id"], p.Category) {
			categoryName = cat["name"]
			break
		}
	}

	rec := map[string]string{
		"product_id":   utils.Sanitize(p.ProductID),
		"name":         utils.Sanitize(p.Name),
		"category":     utils.Sanitize(categoryName),
		"sub_category": utils.Sanitize(p.SubCategory),
		"description":  utils.Sanitize(p.Description),
		"price":        utils.Stringify(p.Price),
		"image_url":    utils.Sanitize(p.ImageURL),
		"cost":         utils.Stringify(p.Cost),
	}
	return s.store.Append(s.cfg.SheetBasic, [][]string{utils.ToRow(rec, models.BasicColumns)})
}

// AddPipe appends a custom pipe row and returns its generated product id
func (s *CatalogService) AddPipe(p *models.PipeProduct) (string, error) {
	productID := uuid.NewString()

	price := utils.Stringify(p.Price)
	if price == "" {
		price = "200"
	}
	rec := map[string]string{
		"product_id":  productID,
		"name":        "Custom PTFE",
		"category":    "pipe",
		"price":       price,
		"diameter":    utils.Sanitize(p.Diameter),
		"length":      utils.Sanitize(p.Length),
		"ptfeGrade":   utils.Sanitize(p.PtfeGrade),
		"coating":     utils.Sanitize(p.Coating),
		"flange":      utils.Sanitize(p.FlangeConfig),
		"ventHole":    yesNo(p.VentHole),
		"grounding":   yesNo(p.Grounding),
		"vacuumRated": yesNo(p.VacuumRated),
		"cost":        utils.Stringify(p.Cost),
	}
	if err := s.store.Append(s.cfg.SheetPipes, [][]string{utils.ToRow(rec, models.PipeColumns)}); err != nil {
		return "", err
	}
	return productID, nil
}

// UpdateProduct rewrites the matching product row in the pipe or basic
// sheet, changing only the supplied fields
func (s *CatalogService) UpdateProduct(productID string, upd *models.ProductUpdate) error {
	isPipe := strings.EqualFold(upd.Category, "pipe")
	sheet := s.cfg.SheetBasic
	idToMatch := productID
	if isPipe {
		sheet = s.cfg.SheetPipes
		if strings.HasPrefix(productID, "P") {
			idToMatch = productID[1:]
		}
	}

	unlock := lockSheets(sheet)
	defer unlock()

	header, rows, err := s.store.Read(sheet)
	if err != nil {
		return err
	}
	found := false
	table := PlanUpdates(header, rows, func(rec map[string]string) bool {
		if rec["product_id"] == idToMatch {
			found = true
			return true
		}
		return false
	}, func(rec map[string]string) map[string]string {
		if isPipe {
			mergePipeFields(rec, upd)
		} else {
			mergeBasicFields(rec, upd)
		}
		return rec
	})
	if !found {
		return fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	return s.store.UpdateRange(sheet, "", table)
}

func mergePipeFields(rec map[string]string, upd *models.ProductUpdate) {
	if v := utils.Stringify(upd.Price); v != "" {
		rec["price"] = v
	}
	setIfPresent(rec, "diameter", upd.Diameter)
	setIfPresent(rec, "length", upd.Length)
	setIfPresent(rec, "ptfeGrade", upd.PtfeGrade)
	setIfPresent(rec, "coating", upd.Coating)
	setIfPresent(rec, "flange", upd.FlangeConfig)
	if upd.VentHole != nil {
		rec["ventHole"] = yesNo(upd.VentHole)
	}
	if upd.Grounding != nil {
		rec["grounding"] = yesNo(upd.Grounding)
	}
	if upd.VacuumRated != nil {
		rec["vacuumRated"] = yesNo(upd.VacuumRated)
	}
	if v := utils.Stringify(upd.Cost); v != "" {
		rec["cost"] = v
	}
}

func mergeBasicFields(rec map[string]string, upd *models.ProductUpdate) {
	if upd.ProductID != "" {
		rec["product_id"] = utils.Sanitize(upd.ProductID)
	}
	setIfPresent(rec, "name", upd.Name)
	if upd.Category != "" {
		rec["category"] = utils.Sanitize(upd.Category)
	}
	setIfPresent(rec, "sub_category", upd.SubCategory)
	setIfPresent(rec, "description", upd.Description)
	if v := utils.Stringify(upd.Price); v != "" {
		rec["price"] = v
	}
	setIfPresent(rec, "image_url", upd.ImageURL)
	if v := utils.Stringify(upd.Cost); v != "" {
		rec["cost"] = v
	}
}

func setIfPresent(rec map[string]string, key string, v *string) {
	if v != nil {
		rec[key] = utils.Sanitize(*v)
	}
}

// BasicProducts returns one page of products across the basic and pipe
// sheets, with derived descriptions and numeric costs
func (s *CatalogService) BasicProducts(page, size int, category string) ([]map[string]interface{}, int, error) {
	basic, err := s.readRecords(s.cfg.SheetBasic)
	if err != nil {
		return nil, 0, err
	}
	pipes, err := s.readRecords(s.cfg.SheetPipes)
	if err != nil {
		return nil, 0, err
	}

	all := make([]map[string]interface{}, 0, len(basic)+len(pipes))
	for _, rec := range basic {
		all = append(all, toProductView(rec))
	}
	for _, rec := range pipes {
		all = append(all, toProductView(rec))
	}

	filtered := all
	if category != "" {
		filtered = make([]map[string]interface{}, 0, len(all))
		for _, p := range all {
			if strings.EqualFold(asString(p["category"]), category) {
				filtered = append(filtered, p)
			}
		}
	}

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}
	startIdx := (page - 1) * size
	endIdx := startIdx + size
	if startIdx > len(filtered) {
		startIdx = len(filtered)
	}
	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}
	return filtered[startIdx:endIdx], len(filtered), nil
}

// ProductCountsByCategory tallies products per category across both sheets
func (s *CatalogService) ProductCountsByCategory() (map[string]int, error) {
	basic, err := s.readRecords(s.cfg.SheetBasic)
	if err != nil {
		return nil, err
	}
	pipes, err := s.readRecords(s.cfg.SheetPipes)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, rec := range append(basic, pipes...) {
		cat := rec["category"]
		if cat == "" {
			cat = "Unknown"
		}
		counts[cat]++
	}
	return counts, nil
}

func (s *CatalogService) readRecords(sheet string) ([]map[string]string, error) {
	header, rows, err := s.store.Read(sheet)
	if err != nil {
		return nil, err
	}
	return utils.ToRecords(header, rows), nil
}

// toProductView converts a product record into the response shape: derived
// description when none is stored, cost as a number
func toProductView(rec map[string]string) map[string]interface{} {
	view := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		view[k] = v
	}

	if strings.TrimSpace(rec["description"]) == "" {
		parts := []string{}
		for _, spec := range [][2]string{
			{"diameter", "Diameter"},
			{"length", "Length"},
			{"ptfeGrade", "PTFE Grade"},
			{"coating", "Coating"},
			{"flange", "Flange"},
			{"ventHole", "Vent Hole"},
			{"grounding", "Grounding"},
			{"vacuumRated", "Vacuum Rated"},
		} {
			if v := rec[spec[0]]; v != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", spec[1], v))
			}
		}
		view["description"] = strings.Join(parts, ", ")
	}

	view["cost"] = parseFloat(rec["cost"], 0)
	return view
}

// formatPipe renders a pipe row as a cached product entry
func formatPipe(rec map[string]string) map[string]interface{} {
	return map[string]interface{}{
		"product_id":   "P" + rec["product_id"],
		"name":         fmt.Sprintf("Custom PTFE %s\" (%smm)", rec["diameter"], rec["length"]),
		"price":        parseFloat(rec["price"], 9.99),
		"category":     "pipe",
		"sub_category": rec["sub_category"],
		"description":  "No description available",
		"diameter":     rec["diameter"],
		"length":       rec["length"],
		"ptfeGrade":    rec["ptfeGrade"],
		"coating":      rec["coating"],
		"flangeConfig": rec["flange"],
		"ventHole":     isYes(rec["ventHole"]),
		"grounding":    isYes(rec["grounding"]),
		"vacuumRated":  isYes(rec["vacuumRated"]),
	}
}

func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func isYes(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "yes")
}

func yesNo(v *bool) string {
	if v != nil && *v {
		return "Yes"
	}
	return "No"
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
