package services

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	appConfig "github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/utils"
)

// QuotationService is the revision engine for quotation documents. Every
// submission is classified as a new document, a new revision of an existing
// document, or an unchanged duplicate of the latest revision; only the
// first two write rows. Revisions are append-only: correcting a quotation
// always produces a new (quotation_no, rev) row set, never an in-place
// edit. The status cell is the single exception.
type QuotationService struct {
	store RowStoreInterface
	cfg   *appConfig.Config

	// Now supplies the clock for number allocation and issue dates;
	// overridable in tests.
	Now func() time.Time
}

// NewQuotationService builds a quotation service on the global row store
// and configuration
func NewQuotationService() *QuotationService {
	return &QuotationService{
		store: GetRowStore(),
		cfg:   appConfig.GetConfig(),
		Now:   time.Now,
	}
}

// Submit runs one submission through the revision engine
func (s *QuotationService) Submit(sub *models.QuotationSubmission) (*models.SubmitResult, error) {
	if len(sub.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	if strings.TrimSpace(sub.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer_name is required", ErrValidation)
	}

	itemHeader, itemRows, err := s.store.Read(s.cfg.SheetItems)
	if err != nil {
		return nil, err
	}
	custHeader, custRows, err := s.store.Read(s.cfg.SheetCustomers)
	if err != nil {
		return nil, err
	}
	itemRecords := utils.ToRecords(itemHeader, itemRows)
	custRecords := utils.ToRecords(custHeader, custRows)

	baseNo := strings.TrimSpace(sub.QuotationNo)
	var related []map[string]string
	if baseNo != "" {
		for _, rec := range itemRecords {
			if rec["quotation_no"] == baseNo {
				related = append(related, rec)
			}
		}
	}

	var quotationNo string
	var rev int
	if baseNo == "" || len(related) == 0 {
		// Brand new document: allocate the next number under this month's
		// prefix
		quotationNo = s.allocateNumber(itemRecords)
		rev = 0
	} else {
		quotationNo = baseNo
		rev = nextRevision(related)
		prevRev := rev - 1

		var latest []map[string]string
		for _, rec := range related {
			if r, ok := utils.ParseRev(rec["rev"]); ok && r == prevRev {
				latest = append(latest, rec)
			}
		}
		var prevCustomer map[string]string
		for _, rec := range custRecords {
			if rec["quotation_no"] != baseNo {
				continue
			}
			if r, ok := utils.ParseRev(rec["rev"]); ok && r == prevRev {
				prevCustomer = rec
				break
			}
		}

		if itemsEqual(sub.Items, latest) && prevCustomer != nil && customerEqual(sub, prevCustomer) {
			log.Printf("Duplicate submission for %s rev %d, nothing written", quotationNo, prevRev)
			return &models.SubmitResult{
				Status:      models.SubmitStatusSkipped,
				Message:     "Duplicate quotation revision",
				QuotationNo: quotationNo,
				Rev:         prevRev,
			}, nil
		}
	}

	issuedDate := s.Now().Format("02/01/2006")
	revCell := utils.RevCell(rev)

	itemValues := make([][]string, 0, len(sub.Items))
	for _, item := range sub.Items {
		cost := utils.Stringify(item.Cost)
		if cost == "" {
			cost = "0"
		}
		rec := map[string]string{
			"quotation_no": quotationNo,
			"rev":          revCell,
			"issued_date":  issuedDate,
			"status":       "Pending",
			"category":     utils.Sanitize(item.Category),
			"product_id":   utils.Sanitize(item.ProductID),
			"name":         utils.Sanitize(item.Name),
			"price":        utils.Stringify(item.Price),
			"quantity":     utils.Stringify(item.Quantity),
			"description":  utils.Sanitize(item.Description),
			"cost":         cost,
			"dwg":          utils.Sanitize(item.Dwg),
		}
		itemValues = append(itemValues, utils.ToRow(rec, models.ItemColumns))
	}
	if err := s.store.Append(s.cfg.SheetItems, itemValues); err != nil {
		return nil, err
	}

	// Idempotence guard: exactly one customer row may exist per
	// (quotation_no, rev); skip the append when a retry already wrote it
	hasCustomer := false
	for _, rec := range custRecords {
		if rec["quotation_no"] != quotationNo {
			continue
		}
		if r, ok := utils.ParseRev(rec["rev"]); ok && r == rev {
			hasCustomer = true
			break
		}
	}
	if !hasCustomer {
		rec := map[string]string{
			"quotation_no": quotationNo,
			"rev":          revCell,
			"issued_date":  issuedDate,
			"status":       "Pending",
		}
		for _, field := range models.CustomerFields {
			rec[field] = utils.Sanitize(sub.CustomerField(field))
		}
		if err := s.store.Append(s.cfg.SheetCustomers, [][]string{utils.ToRow(rec, models.CustomerColumns)}); err != nil {
			return nil, &PartialCascadeError{
				Completed: s.cfg.SheetItems,
				Failed:    s.cfg.SheetCustomers,
				Err:       err,
			}
		}
	}

	log.Printf("Saved quotation %s rev %d (%d items)", quotationNo, rev, len(sub.Items))
	return &models.SubmitResult{
		Status:      models.SubmitStatusSuccess,
		QuotationNo: quotationNo,
		Rev:         rev,
	}, nil
}

// allocateNumber returns the next quotation number under the current
// month's prefix: QT<YY><MM>T-<NNNN>, where NNNN continues from the highest
// suffix already allocated under the exact same prefix
func (s *QuotationService) allocateNumber(itemRecords []map[string]string) string {
	now := s.Now()
	prefix := fmt.Sprintf("QT%s%sT-", now.Format("06"), now.Format("01"))

	max := 0
	for _, rec := range itemRecords {
		no := rec["quotation_no"]
		if !strings.HasPrefix(no, prefix) {
			continue
		}
		suffix := no[len(prefix):]
		if len(suffix) != 4 {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1)
}

// nextRevision computes max(existing revs) + 1, or 1 when no rev cell
// parses
func nextRevision(related []map[string]string) int {
	max := -1
	for _, rec := range related {
		if r, ok := utils.ParseRev(rec["rev"]); ok && r > max {
			max = r
		}
	}
	if max < 0 {
		return 1
	}
	return max + 1
}

// itemsEqual compares the incoming items with the stored rows of the
// previous revision as multisets of normalized (product_id, name, price,
// quantity) tuples. Duplicate items within one submission are distinct
// multiset elements, so differing multiplicities are never a duplicate.
func itemsEqual(items []models.QuotationItem, stored []map[string]string) bool {
	if len(items) != len(stored) {
		return false
	}
	incoming := make([]string, 0, len(items))
	for _, item := range items {
		incoming = append(incoming, itemKey(item.ProductID, item.Name, utils.Stringify(item.Price), utils.Stringify(item.Quantity)))
	}
	existing := make([]string, 0, len(stored))
	for _, rec := range stored {
		existing = append(existing, itemKey(rec["product_id"], rec["name"], rec["price"], rec["quantity"]))
	}
	sort.Strings(incoming)
	sort.Strings(existing)
	for i := range incoming {
		if incoming[i] != existing[i] {
			return false
		}
	}
	return true
}

func itemKey(productID, name, price, quantity string) string {
	return strings.Join([]string{
		utils.Normalize(productID),
		utils.Normalize(name),
		utils.Normalize(price),
		utils.Normalize(quantity),
	}, "\x1f")
}

// customerEqual reports whether every customer field of the submission
// matches the stored header row under normalization
func customerEqual(sub *models.QuotationSubmission, stored map[string]string) bool {
	for _, field := range models.CustomerFields {
		if utils.Normalize(sub.CustomerField(field)) != utils.Normalize(stored[field]) {
			return false
		}
	}
	return true
}

// Get returns a fully joined quotation: its item rows for the requested
// revision, the customer header fields, and any drawing attachments
// resolved through each item's dwg field
func (s *QuotationService) Get(quotationNo, revParam string) (*models.QuotationDetail, error) {
	rev, ok := utils.ParseRev(revParam)
	if !ok {
		return nil, fmt.Errorf("%w: invalid rev %q", ErrValidation, revParam)
	}

	itemHeader, itemRows, err := s.store.Read(s.cfg.SheetItems)
	if err != nil {
		return nil, err
	}
	custHeader, custRows, err := s.store.Read(s.cfg.SheetCustomers)
	if err != nil {
		return nil, err
	}
	dwgHeader, dwgRows, err := s.store.Read(s.cfg.SheetDrawings)
	if err != nil {
		return nil, err
	}

	var matched []map[string]string
	for _, rec := range utils.ToRecords(itemHeader, itemRows) {
		if rec["quotation_no"] != quotationNo {
			continue
		}
		if r, ok := utils.ParseRev(rec["rev"]); ok && r == rev {
			matched = append(matched, rec)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: quotation %s rev %d", ErrNotFound, quotationNo, rev)
	}

	customer := map[string]string{}
	for _, rec := range utils.ToRecords(custHeader, custRows) {
		if rec["quotation_no"] != quotationNo {
			continue
		}
		if r, ok := utils.ParseRev(rec["rev"]); ok && r == rev {
			customer = rec
			break
		}
	}

	drawings := utils.ToRecords(dwgHeader, dwgRows)
	for _, item := range matched {
		dwgName := strings.TrimSpace(item["dwg"])
		if dwgName == "" {
			continue
		}
		item["dwg_name"] = dwgName
		item["dwg_url"] = ""
		for _, d := range drawings {
			if d["quotation_no"] != quotationNo {
				continue
			}
			r, ok := utils.ParseRev(d["rev"])
			if !ok || r != rev {
				continue
			}
			if strings.TrimSpace(d["drawing_name"]) == dwgName {
				item["dwg_name"] = d["drawing_name"]
				item["dwg_url"] = d["drawing_url"]
				break
			}
		}
	}

	detail := &models.QuotationDetail{
		Customer: map[string]string{
			"name":               customer["customer_name"],
			"email":              customer["email"],
			"phone":              customer["phone"],
			"company":            customer["company"],
			"address":            customer["address"],
			"notes":              customer["notes"],
			"sales_person":       customer["sales_person"],
			"sales_mobile":       customer["sales_mobile"],
			"sales_email":        customer["sales_email"],
			"sales_contact":      customer["sales_contact"],
			"contact_tel":        customer["contact_tel"],
			"contact_email":      customer["contact_email"],
			"delivery_time":      customer["delivery_time"],
			"delivery_term":      customer["delivery_term"],
			"payment_term":       customer["payment_term"],
			"quotation_validity": customer["quotation_validity"],
			"customer_ref":       customer["customer_ref"],
			"enquiry_ref":        customer["enquiry_ref"],
		},
		Items:      matched,
		IssuedDate: customer["issued_date"],
		Status:     matched[0]["status"],
	}
	if detail.IssuedDate == "" {
		detail.IssuedDate = matched[0]["issued_date"]
	}
	return detail, nil
}

// ListNumbers returns the sorted unique quotation numbers, optionally
// filtered by status (case-insensitive)
func (s *QuotationService) ListNumbers(statusFilter string) ([]string, error) {
	header, rows, err := s.store.Read(s.cfg.SheetItems)
	if err != nil {
		return nil, err
	}
	filter := strings.ToLower(strings.TrimSpace(statusFilter))
	seen := make(map[string]bool)
	numbers := []string{}
	for _, rec := range utils.ToRecords(header, rows) {
		if filter != "" && strings.ToLower(rec["status"]) != filter {
			continue
		}
		no := rec["quotation_no"]
		if no == "" || seen[no] {
			continue
		}
		seen[no] = true
		numbers = append(numbers, no)
	}
	sort.Strings(numbers)
	return numbers, nil
}

// ListRevisions returns the sorted unique revision numbers of a quotation
func (s *QuotationService) ListRevisions(quotationNo string) ([]int, error) {
	header, rows, err := s.store.Read(s.cfg.SheetItems)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	revs := []int{}
	for _, rec := range utils.ToRecords(header, rows) {
		if rec["quotation_no"] != quotationNo {
			continue
		}
		if r, ok := utils.ParseRev(rec["rev"]); ok && !seen[r] {
			seen[r] = true
			revs = append(revs, r)
		}
	}
	sort.Ints(revs)
	return revs, nil
}

// LatestNumber returns the highest quotation number allocated under the
// given prefix, or "" when none exists
func (s *QuotationService) LatestNumber(prefix string) (string, error) {
	header, rows, err := s.store.Read(s.cfg.SheetItems)
	if err != nil {
		return "", err
	}
	last := ""
	for _, rec := range utils.ToRecords(header, rows) {
		no := rec["quotation_no"]
		if no == "" || !strings.HasPrefix(no, prefix) {
			continue
		}
		if no > last {
			last = no
		}
	}
	return last, nil
}

// UpdateStatus overwrites the status cell of every item row and the single
// customer row matching (quotation_no, rev), leaving every other cell
// untouched. Both sheets are replaced whole-range from a locked snapshot;
// if the customer sheet fails after the item sheet succeeded the error is
// reported as a partial cascade, never swallowed.
func (s *QuotationService) UpdateStatus(quotationNo string, rev int, status string) error {
	if strings.TrimSpace(quotationNo) == "" || strings.TrimSpace(status) == "" {
		return fmt.Errorf("%w: quotation_no and status are required", ErrValidation)
	}

	unlock := lockSheets(s.cfg.SheetItems, s.cfg.SheetCustomers)
	defer unlock()

	itemHeader, itemRows, err := s.store.Read(s.cfg.SheetItems)
	if err != nil {
		return err
	}
	match := func(rec map[string]string) bool {
		if rec["quotation_no"] != quotationNo {
			return false
		}
		r, ok := utils.ParseRev(rec["rev"])
		return ok && r == rev
	}
	if !anyRecord(utils.ToRecords(itemHeader, itemRows), match) {
		return fmt.Errorf("%w: quotation %s rev %d", ErrNotFound, quotationNo, rev)
	}

	sanitized := utils.Sanitize(status)
	itemTable := statusTable(itemHeader, itemRows, match, sanitized)
	if err := s.store.UpdateRange(s.cfg.SheetItems, "", itemTable); err != nil {
		return err
	}

	custHeader, custRows, err := s.store.Read(s.cfg.SheetCustomers)
	if err != nil {
		return &PartialCascadeError{Completed: s.cfg.SheetItems, Failed: s.cfg.SheetCustomers, Err: err}
	}
	first := true
	custTable := statusTable(custHeader, custRows, func(rec map[string]string) bool {
		if !first || !match(rec) {
			return false
		}
		first = false
		return true
	}, sanitized)
	if err := s.store.UpdateRange(s.cfg.SheetCustomers, "", custTable); err != nil {
		return &PartialCascadeError{Completed: s.cfg.SheetItems, Failed: s.cfg.SheetCustomers, Err: err}
	}
	return nil
}

// statusTable builds the whole-range replacement table with the status cell
// rewritten on matching rows. When the sheet header does not name a status
// column the conventional column D position is patched instead.
func statusTable(header []string, rows [][]string, match func(map[string]string) bool, status string) [][]string {
	hasStatus := false
	for _, h := range header {
		if h == "status" {
			hasStatus = true
			break
		}
	}
	if hasStatus {
		return PlanUpdates(header, rows, match, func(rec map[string]string) map[string]string {
			rec["status"] = status
			return rec
		})
	}

	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	records := utils.ToRecords(header, rows)
	for i, rec := range records {
		row := append([]string(nil), rows[i]...)
		if match(rec) {
			for len(row) <= models.StatusColumnIndex {
				row = append(row, "")
			}
			row[models.StatusColumnIndex] = status
		}
		out = append(out, row)
	}
	return out
}

func anyRecord(records []map[string]string, match func(map[string]string) bool) bool {
	for _, rec := range records {
		if match(rec) {
			return true
		}
	}
	return false
}

// AttachDrawingNames fills the dwg cell of item rows identified by
// (quotation_no, rev, product_id); it is used after drawing uploads to link
// items to their drawing attachment
func (s *QuotationService) AttachDrawingNames(links [][4]string) (int, error) {
	unlock := lockSheets(s.cfg.SheetItems)
	defer unlock()

	header, rows, err := s.store.Read(s.cfg.SheetItems)
	if err != nil {
		return 0, err
	}

	updated := 0
	table := rows
	for _, link := range links {
		quotationNo, revParam, productID, drawingName := link[0], link[1], link[2], link[3]
		rev, ok := utils.ParseRev(strings.TrimSpace(revParam))
		if !ok {
			continue
		}
		first := true
		table = dropHeader(PlanUpdates(header, table, func(rec map[string]string) bool {
			if !first || rec["quotation_no"] != quotationNo || rec["product_id"] != productID {
				return false
			}
			r, ok := utils.ParseRev(rec["rev"])
			if !ok || r != rev {
				return false
			}
			first = false
			return true
		}, func(rec map[string]string) map[string]string {
			rec["dwg"] = utils.Sanitize(drawingName)
			return rec
		}))
		if !first {
			updated++
		}
	}

	full := append([][]string{header}, table...)
	if err := s.store.UpdateRange(s.cfg.SheetItems, "", full); err != nil {
		return 0, err
	}
	return updated, nil
}

func dropHeader(table [][]string) [][]string {
	if len(table) == 0 {
		return table
	}
	return table[1:]
}
