package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/services"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupMockStore wires a mock row store with seeded sheet headers as the
// process-wide store, plus a test config whose sheet names it uses
func setupMockStore() *services.MockRowStore {
	config.SetConfig(&config.Config{
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
	})

	mock := services.NewMockRowStore()
	mock.Seed("items", [][]string{models.ItemColumns})
	mock.Seed("customers", [][]string{models.CustomerColumns})
	mock.Seed("drawings", [][]string{models.DrawingColumns})
	mock.Seed("categories", [][]string{models.CategoryColumns})
	mock.Seed("basic", [][]string{models.BasicColumns})
	mock.Seed("pipes", [][]string{models.PipeColumns})
	mock.SetAsMockForTesting()

	services.SetCatalogService(services.NewCatalogService())
	return mock
}

func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	response := parseResponse(t, w)
	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, code, errorData["code"])
}

func submissionBody(quotationNo string) map[string]interface{} {
	return map[string]interface{}{
		"quotation_no":  quotationNo,
		"customer_name": "Acme Industrial",
		"items": []map[string]interface{}{
			{
				"category":   "hose",
				"product_id": "B-100",
				"name":       "PTFE Hose",
				"price":      100,
				"quantity":   2,
			},
		},
	}
}

var quotationNoPattern = regexp.MustCompile(`^QT\d{4}T-\d{4}$`)

func TestSubmitQuotationEndpoint(t *testing.T) {
	setupMockStore()
	router := setupTestRouter()
	router.POST("/add_quotation", SubmitQuotation)

	// First submission creates a new document at revision 0
	w := performJSON(router, http.MethodPost, "/add_quotation", submissionBody(""))
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "success", data["status"])
	assert.Regexp(t, quotationNoPattern, data["quotation_no"])
	assert.Equal(t, float64(0), data["rev"])

	// Resubmitting unchanged under the allocated number writes nothing
	quotationNo := data["quotation_no"].(string)
	w = performJSON(router, http.MethodPost, "/add_quotation", submissionBody(quotationNo))
	assert.Equal(t, http.StatusOK, w.Code)

	response = parseResponse(t, w)
	data = response["data"].(map[string]interface{})
	assert.Equal(t, "skipped", data["status"])
	assert.Equal(t, quotationNo, data["quotation_no"])
}

func TestSubmitQuotationEndpointValidation(t *testing.T) {
	setupMockStore()
	router := setupTestRouter()
	router.POST("/add_quotation", SubmitQuotation)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "Missing items",
			body: map[string]interface{}{"customer_name": "Acme"},
		},
		{
			name: "Missing customer name",
			body: map[string]interface{}{
				"items": []map[string]interface{}{{"product_id": "B-100"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/add_quotation", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assertErrorCode(t, w, "VALIDATION_ERROR")
		})
	}
}

func TestSubmitQuotationEndpointStoreFailure(t *testing.T) {
	mock := setupMockStore()
	mock.FailNext("read", "items", fmt.Errorf("%w: credentials expired", services.ErrStoreUnavailable))
	router := setupTestRouter()
	router.POST("/add_quotation", SubmitQuotation)

	w := performJSON(router, http.MethodPost, "/add_quotation", submissionBody(""))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assertErrorCode(t, w, "STORE_UNAVAILABLE")
}

func TestGetQuotationEndpoint(t *testing.T) {
	setupMockStore()
	router := setupTestRouter()
	router.POST("/add_quotation", SubmitQuotation)
	router.GET("/quotation/:quotation_no", GetQuotation)

	w := performJSON(router, http.MethodGet, "/quotation/QT2501T-0001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorCode(t, w, "NOT_FOUND")

	w = performJSON(router, http.MethodPost, "/add_quotation", submissionBody(""))
	data := parseResponse(t, w)["data"].(map[string]interface{})
	quotationNo := data["quotation_no"].(string)

	w = performJSON(router, http.MethodGet, "/quotation/"+quotationNo, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	assert.True(t, response["success"].(bool))
	detail := response["data"].(map[string]interface{})
	customer := detail["customer"].(map[string]interface{})
	assert.Equal(t, "Acme Industrial", customer["name"])
	assert.Equal(t, "Pending", detail["status"])
	assert.Len(t, detail["items"].([]interface{}), 1)
}

func TestListQuotationsEndpoint(t *testing.T) {
	setupMockStore()
	router := setupTestRouter()
	router.POST("/add_quotation", SubmitQuotation)
	router.GET("/quotation_list", ListQuotations)
	router.GET("/revisions/:quotation_no", ListRevisions)
	router.GET("/latest_quotation_no", LatestQuotationNo)

	w := performJSON(router, http.MethodPost, "/add_quotation", submissionBody(""))
	data := parseResponse(t, w)["data"].(map[string]interface{})
	quotationNo := data["quotation_no"].(string)

	w = performJSON(router, http.MethodGet, "/quotation_list", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.Equal(t, []interface{}{quotationNo}, response["data"])

	w = performJSON(router, http.MethodGet, "/quotation_list?status=approved", nil)
	response = parseResponse(t, w)
	assert.Empty(t, response["data"])

	w = performJSON(router, http.MethodGet, "/revisions/"+quotationNo, nil)
	response = parseResponse(t, w)
	assert.Equal(t, []interface{}{float64(0)}, response["data"])

	w = performJSON(router, http.MethodGet, "/latest_quotation_no?prefix="+quotationNo[:8], nil)
	response = parseResponse(t, w)
	last := response["data"].(map[string]interface{})
	assert.Equal(t, quotationNo, last["last"])
}

func TestUpdateQuotationStatusEndpoint(t *testing.T) {
	mock := setupMockStore()
	router := setupTestRouter()
	router.POST("/add_quotation", SubmitQuotation)
	router.POST("/update_quotation_status", UpdateQuotationStatus)

	w := performJSON(router, http.MethodPost, "/add_quotation", submissionBody(""))
	data := parseResponse(t, w)["data"].(map[string]interface{})
	quotationNo := data["quotation_no"].(string)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Status updated in both sheets",
			body: map[string]interface{}{
				"quotation_no": quotationNo,
				"rev":          0,
				"status":       "Approved",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Numeric string rev is accepted",
			body: map[string]interface{}{
				"quotation_no": quotationNo,
				"rev":          "0",
				"status":       "Rejected",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Unknown quotation",
			body: map[string]interface{}{
				"quotation_no": "QT2401T-9999",
				"rev":          0,
				"status":       "Approved",
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NOT_FOUND",
		},
		{
			name: "Invalid rev",
			body: map[string]interface{}{
				"quotation_no": quotationNo,
				"rev":          "two",
				"status":       "Approved",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Missing status",
			body: map[string]interface{}{
				"quotation_no": quotationNo,
				"rev":          0,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/update_quotation_status", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assertErrorCode(t, w, tt.expectedError)
			}
		})
	}

	assert.Equal(t, "Rejected", mock.Rows("items")[1][3])
}

func TestUpdateQuotationStatusPartialCascade(t *testing.T) {
	mock := setupMockStore()
	router := setupTestRouter()
	router.POST("/add_quotation", SubmitQuotation)
	router.POST("/update_quotation_status", UpdateQuotationStatus)

	w := performJSON(router, http.MethodPost, "/add_quotation", submissionBody(""))
	data := parseResponse(t, w)["data"].(map[string]interface{})
	quotationNo := data["quotation_no"].(string)

	mock.FailNext("update", "customers", fmt.Errorf("quota exceeded"))
	w = performJSON(router, http.MethodPost, "/update_quotation_status", map[string]interface{}{
		"quotation_no": quotationNo,
		"rev":          0,
		"status":       "Approved",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assertErrorCode(t, w, "PARTIAL_CASCADE_FAILURE")
}

func TestUpdateDwgColumnEndpoint(t *testing.T) {
	mock := setupMockStore()
	router := setupTestRouter()
	router.POST("/add_quotation", SubmitQuotation)
	router.POST("/update_dwg_column", UpdateDwgColumn)

	w := performJSON(router, http.MethodPost, "/add_quotation", submissionBody(""))
	data := parseResponse(t, w)["data"].(map[string]interface{})
	quotationNo := data["quotation_no"].(string)

	w = performJSON(router, http.MethodPost, "/update_dwg_column", map[string]interface{}{
		"rows": [][]string{
			{quotationNo, "", "B-100", "assembly.pdf"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	updated := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), updated["updated"])
	assert.Equal(t, "assembly.pdf", mock.Rows("items")[1][11])
}
