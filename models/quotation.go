package models

// Quotation numbers look like QT2501T-0001: QT + two-digit year + two-digit
// month + "T-" + a four-digit per-month sequence. A revision 0 is stored as
// an empty rev cell; revisions 1..n are stored as their decimal string.

// ItemColumns is the canonical column order of the quotation item sheet.
// The status cell lives at index 3 (column D) in both writable sheets.
var ItemColumns = []string{
	"quotation_no",
	"rev",
	"issued_date",
	"status",
	"category",
	"product_id",
	"name",
	"price",
	"quantity",
	"description",
	"cost",
	"dwg",
}

// CustomerFields are the customer/commercial fields carried on a quotation
// header row, compared field-by-field during duplicate detection.
var CustomerFields = []string{
	"customer_name",
	"email",
	"phone",
	"company",
	"address",
	"notes",
	"sales_person",
	"sales_mobile",
	"sales_email",
	"sales_contact",
	"contact_tel",
	"contact_email",
	"delivery_time",
	"delivery_term",
	"payment_term",
	"quotation_validity",
	"customer_ref",
	"enquiry_ref",
}

// CustomerColumns is the canonical column order of the customer sheet:
// document identity plus the customer fields.
var CustomerColumns = append([]string{
	"quotation_no",
	"rev",
	"issued_date",
	"status",
}, CustomerFields...)

// DrawingColumns is the canonical column order of the drawing sheet.
var DrawingColumns = []string{
	"quotation_no",
	"rev",
	"drawing_name",
	"drawing_url",
}

// StatusColumnIndex is the fallback position of the status cell when the
// sheet header does not carry a "status" column name.
const StatusColumnIndex = 3

// QuotationItem is one line item of a submission
type QuotationItem struct {
	Category    string      `json:"category"`
	ProductID   string      `json:"product_id"`
	Name        string      `json:"name"`
	Price       interface{} `json:"price"`
	Quantity    interface{} `json:"quantity"`
	Description string      `json:"description"`
	Cost        interface{} `json:"cost"`
	Dwg         string      `json:"dwg"`
}

// QuotationSubmission is a candidate quotation: customer fields plus items.
// QuotationNo is empty for a brand new document.
type QuotationSubmission struct {
	QuotationNo       string          `json:"quotation_no"`
	Items             []QuotationItem `json:"items" binding:"required"`
	CustomerName      string          `json:"customer_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Company           string          `json:"company"`
	Address           string          `json:"address"`
	Notes             string          `json:"notes"`
	SalesPerson       string          `json:"sales_person"`
	SalesMobile       string          `json:"sales_mobile"`
	SalesEmail        string          `json:"sales_email"`
	SalesContact      string          `json:"sales_contact"`
	ContactTel        string          `json:"contact_tel"`
	ContactEmail      string          `json:"contact_email"`
	DeliveryTime      string          `json:"delivery_time"`
	DeliveryTerm      string          `json:"delivery_term"`
	PaymentTerm       string          `json:"payment_term"`
	QuotationValidity string          `json:"quotation_validity"`
	CustomerRef       string          `json:"customer_ref"`
	EnquiryRef        string          `json:"enquiry_ref"`
}

// CustomerField returns the submission value for one of CustomerFields
func (s *QuotationSubmission) CustomerField(name string) string {
	switch name {
	case "customer_name":
		return s.CustomerName
	case "email":
		return s.Email
	case "phone":
		return s.Phone
	case "company":
		return s.Company
	case "address":
		return s.Address
	case "notes":
		return s.Notes
	case "sales_person":
		return s.SalesPerson
	case "sales_mobile":
		return s.SalesMobile
	case "sales_email":
		return s.SalesEmail
	case "sales_contact":
		return s.SalesContact
	case "contact_tel":
		return s.ContactTel
	case "contact_email":
		return s.ContactEmail
	case "delivery_time":
		return s.DeliveryTime
	case "delivery_term":
		return s.DeliveryTerm
	case "payment_term":
		return s.PaymentTerm
	case "quotation_validity":
		return s.QuotationValidity
	case "customer_ref":
		return s.CustomerRef
	case "enquiry_ref":
		return s.EnquiryRef
	}
	return ""
}

// SubmitResult reports the outcome of a submission
type SubmitResult struct {
	Status      string `json:"status"` // "success" for new/revised, "skipped" for duplicates
	Message     string `json:"message,omitempty"`
	QuotationNo string `json:"quotation_no"`
	Rev         int    `json:"rev"`
}

// Submission outcome statuses
const (
	SubmitStatusSuccess = "success"
	SubmitStatusSkipped = "skipped"
)

// QuotationDetail is a fully joined quotation: item rows (with drawing name
// and URL attached where present), the customer header fields, and the
// issued date / status taken from the header row.
type QuotationDetail struct {
	Customer   map[string]string   `json:"customer"`
	Items      []map[string]string `json:"items"`
	IssuedDate string              `json:"issued_date"`
	Status     string              `json:"status"`
}

// Drawing is one drawing attachment row
type Drawing struct {
	QuotationNo string `json:"quotation_no"`
	Rev         string `json:"rev"`
	DrawingName string `json:"drawing_name"`
	DrawingURL  string `json:"drawing_url"`
}
