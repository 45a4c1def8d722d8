package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/services"
)

// setupIntegrationRouter wires the full route table against an in-memory
// row store and returns both
func setupIntegrationRouter() (*gin.Engine, *services.MockRowStore) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		GoEnv:               "test",
		SheetItems:          "items",
		SheetCustomers:      "customers",
		SheetCustomerMaster: "customer_master",
		SheetBasic:          "basic",
		SheetCategories:     "categories",
		SheetPipes:          "pipes",
		SheetDrawings:       "drawings",
		SheetSales:          "sales",
		SheetContacts:       "contacts",
	}
	config.SetConfig(cfg)

	mock := services.NewMockRowStore()
	mock.Seed("items", [][]string{models.ItemColumns})
	mock.Seed("customers", [][]string{models.CustomerColumns})
	mock.Seed("drawings", [][]string{models.DrawingColumns})
	mock.Seed("categories", [][]string{models.CategoryColumns})
	mock.Seed("basic", [][]string{models.BasicColumns})
	mock.Seed("pipes", [][]string{models.PipeColumns})
	mock.SetAsMockForTesting()
	services.SetCatalogService(services.NewCatalogService())

	return setupRouter(cfg), mock
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestQuotationLifecycleIntegration walks one quotation through the whole
// revision cycle over the real route table
func TestQuotationLifecycleIntegration(t *testing.T) {
	router, _ := setupIntegrationRouter()

	submission := map[string]interface{}{
		"customer_name": "Acme Industrial",
		"items": []map[string]interface{}{
			{"category": "hose", "product_id": "B-100", "name": "PTFE Hose", "price": 100, "quantity": 2},
		},
	}

	// Submit a new quotation
	w := doJSON(router, "POST", "/add_quotation", submission)
	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "success", data["status"])
	quotationNo := data["quotation_no"].(string)

	// Resubmit unchanged: skipped, nothing written
	submission["quotation_no"] = quotationNo
	w = doJSON(router, "POST", "/add_quotation", submission)
	json.Unmarshal(w.Body.Bytes(), &response)
	data = response["data"].(map[string]interface{})
	assert.Equal(t, "skipped", data["status"])

	// Change the quantity: revision 1
	submission["items"] = []map[string]interface{}{
		{"category": "hose", "product_id": "B-100", "name": "PTFE Hose", "price": 100, "quantity": 5},
	}
	w = doJSON(router, "POST", "/add_quotation", submission)
	json.Unmarshal(w.Body.Bytes(), &response)
	data = response["data"].(map[string]interface{})
	assert.Equal(t, "success", data["status"])
	assert.Equal(t, float64(1), data["rev"])

	// Both revisions are listed
	w = doJSON(router, "GET", "/revisions/"+quotationNo, nil)
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, []interface{}{float64(0), float64(1)}, response["data"])

	// Approve revision 1
	w = doJSON(router, "POST", "/update_quotation_status", map[string]interface{}{
		"quotation_no": quotationNo,
		"rev":          1,
		"status":       "Approved",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// The joined detail reflects the new status
	w = doJSON(router, "GET", "/quotation/"+quotationNo+"?rev=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	json.Unmarshal(w.Body.Bytes(), &response)
	detail := response["data"].(map[string]interface{})
	assert.Equal(t, "Approved", detail["status"])

	// Revision 0 is untouched
	w = doJSON(router, "GET", "/quotation/"+quotationNo, nil)
	json.Unmarshal(w.Body.Bytes(), &response)
	detail = response["data"].(map[string]interface{})
	assert.Equal(t, "Pending", detail["status"])
}

// TestCatalogCascadeIntegration verifies the category cascade over the real
// route table
func TestCatalogCascadeIntegration(t *testing.T) {
	router, mock := setupIntegrationRouter()
	mock.Seed("categories", [][]string{
		models.CategoryColumns,
		{"cat-gasket", "Gaskets", "gasket.svg"},
	})
	mock.Seed("basic", [][]string{
		models.BasicColumns,
		{"B-101", "Spiral Gasket", "Gaskets", "", "", "45", "", "20"},
		{"B-102", "Ring Gasket", "Gaskets", "", "", "30", "", "12"},
	})

	w := doJSON(router, "DELETE", "/delete_category/cat-gasket", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["deletedProducts"])
	assert.Len(t, mock.Rows("basic"), 1)
	assert.Len(t, mock.Rows("categories"), 1)
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full
// routing
func TestHealthEndpointIntegration(t *testing.T) {
	router, _ := setupIntegrationRouter()

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "QuoteVend API is running", response["message"])

	// The endpoint requires the /api/v1 prefix
	req, _ = http.NewRequest("GET", "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")
}
