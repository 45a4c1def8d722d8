package services

import (
	"fmt"
	"strings"

	appConfig "github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/utils"
)

// LookupService answers form-autofill queries against the imported master
// sheets. The master sheets keep their export column names ("Name", "No.",
// "Company No."), not the snake_case names of the quotation sheets.
type LookupService struct {
	store RowStoreInterface
	cfg   *appConfig.Config
}

// NewLookupService builds a lookup service on the global row store and
// configuration
func NewLookupService() *LookupService {
	return &LookupService{store: GetRowStore(), cfg: appConfig.GetConfig()}
}

// CompanyContact is one contact person of a company
type CompanyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CompanyInfo is the company lookup result
type CompanyInfo struct {
	Company   string           `json:"company"`
	CompanyNo string           `json:"companyNo"`
	Address   string           `json:"address"`
	Contacts  []CompanyContact `json:"contacts"`
}

// CompanyLookup finds the first company whose name contains the query
// (case-insensitive) and its contact persons
func (s *LookupService) CompanyLookup(query string) (*CompanyInfo, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, fmt.Errorf("%w: missing query", ErrValidation)
	}

	customers, err := s.readRecords(s.cfg.SheetCustomerMaster)
	if err != nil {
		return nil, err
	}
	contacts, err := s.readRecords(s.cfg.SheetContacts)
	if err != nil {
		return nil, err
	}

	var matched map[string]string
	for _, rec := range customers {
		if strings.Contains(strings.ToLower(rec["Name"]), query) {
			matched = rec
			break
		}
	}
	if matched == nil {
		return nil, fmt.Errorf("%w: company matching %q", ErrNotFound, query)
	}

	customerNo := strings.TrimSpace(matched["No."])
	addressParts := []string{}
	for _, part := range []string{matched["Address"], matched["Address 2"]} {
		if p := strings.TrimSpace(part); p != "" {
			addressParts = append(addressParts, p)
		}
	}

	related := []CompanyContact{}
	for _, rec := range contacts {
		if strings.TrimSpace(rec["Company No."]) != customerNo {
			continue
		}
		related = append(related, CompanyContact{
			Name:  rec["Name"],
			Phone: rec["Phone No."],
			Email: rec["Email"],
		})
	}

	return &CompanyInfo{
		Company:   matched["Name"],
		CompanyNo: customerNo,
		Address:   strings.Join(addressParts, " "),
		Contacts:  related,
	}, nil
}

// SalesLookupByCode resolves a salesperson code to a name and mobile number
func (s *LookupService) SalesLookupByCode(code string) (name, mobile string, err error) {
	rec, err := s.findByCode(code)
	if err != nil {
		return "", "", err
	}
	return rec["Full Name"], rec["Phone No."], nil
}

// ContactLookupByCode resolves a contact code to a name and telephone number
func (s *LookupService) ContactLookupByCode(code string) (name, tel string, err error) {
	rec, err := s.findByCode(code)
	if err != nil {
		return "", "", err
	}
	return rec["Full Name"], rec["Phone No."], nil
}

func (s *LookupService) findByCode(code string) (map[string]string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: missing code", ErrValidation)
	}
	records, err := s.readRecords(s.cfg.SheetSales)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec["Code"] == code {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: code %s", ErrNotFound, code)
}

func (s *LookupService) readRecords(sheet string) ([]map[string]string, error) {
	header, rows, err := s.store.Read(sheet)
	if err != nil {
		return nil, err
	}
	return utils.ToRecords(header, rows), nil
}
