package services

import (
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	appConfig "github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/utils"
)

var fileDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// Bangkok time governs the filename date check; the master lists are
// exported there daily.
var bangkokOffset = 7 * time.Hour

// ExcelService ingests exported .xlsx master lists into their target
// sheets: the previous contents are cleared (header kept) and the new data
// rows appended in one pass.
type ExcelService struct {
	store RowStoreInterface
	cfg   *appConfig.Config

	// Now supplies the clock for the filename date check; overridable in
	// tests.
	Now func() time.Time
}

// NewExcelService builds an excel service on the global row store and
// configuration
func NewExcelService() *ExcelService {
	return &ExcelService{store: GetRowStore(), cfg: appConfig.GetConfig(), Now: time.Now}
}

// ImportWorkbook validates the uploaded workbook, picks the target sheet by
// filename prefix and replaces that sheet's data rows with the workbook's.
// The filename must carry today's date, which guards against re-importing a
// stale export.
func (s *ExcelService) ImportWorkbook(fileHeader *multipart.FileHeader) (string, int, error) {
	name := fileHeader.Filename
	if !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return "", 0, fmt.Errorf("%w: an Excel (.xlsx) file is required", ErrValidation)
	}

	dateMatch := fileDatePattern.FindString(name)
	if dateMatch == "" {
		return "", 0, fmt.Errorf("%w: filename must contain a date in YYYY-MM-DD format", ErrValidation)
	}
	today := s.Now().UTC().Add(bangkokOffset).Format("2006-01-02")
	if dateMatch != today {
		return "", 0, fmt.Errorf("%w: filename date must be today (%s)", ErrValidation, today)
	}

	var target string
	switch {
	case strings.HasPrefix(name, "Customer List"):
		target = s.cfg.SheetCustomerMaster
	case strings.HasPrefix(name, "Salespersons_Purchasers PURCHASE.MWAVE"):
		target = s.cfg.SheetSales
	case strings.HasPrefix(name, "Contact List PURCHASE.MWAVE"):
		target = s.cfg.SheetContacts
	default:
		return "", 0, fmt.Errorf("%w: filename must start with \"Customer List\", \"Salespersons_Purchasers PURCHASE.MWAVE\" or \"Contact List PURCHASE.MWAVE\"", ErrValidation)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return "", 0, fmt.Errorf("%w: could not read workbook: %v", ErrValidation, err)
	}
	defer workbook.Close()

	sheetNames := workbook.GetSheetList()
	if len(sheetNames) == 0 {
		return "", 0, fmt.Errorf("%w: workbook has no sheets", ErrValidation)
	}
	rows, err := workbook.GetRows(sheetNames[0])
	if err != nil {
		return "", 0, fmt.Errorf("%w: could not read workbook: %v", ErrValidation, err)
	}
	if len(rows) <= 1 {
		return "", 0, fmt.Errorf("%w: workbook has no data rows", ErrValidation)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = utils.Sanitize(cell)
		}
		data = append(data, cells)
	}

	if err := s.store.ClearRange(target, "A2:Z"); err != nil {
		return "", 0, err
	}
	if err := s.store.Append(target, data); err != nil {
		return "", 0, err
	}
	return target, len(data), nil
}
