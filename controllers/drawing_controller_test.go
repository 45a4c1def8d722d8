package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/services"
)

type uploadFile struct {
	field   string
	name    string
	content string
}

func performMultipart(t *testing.T, router *gin.Engine, path string, fields map[string]string, files []uploadFile) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		assert.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadDrawingsEndpoint(t *testing.T) {
	mock := setupMockStore()
	s3 := services.NewMockS3Service()
	s3.SetAsMockForTesting()
	router := setupTestRouter()
	router.POST("/upload_drawing", UploadDrawings)

	w := performMultipart(t, router, "/upload_drawing",
		map[string]string{"quotation_no": "QT2501T-0001", "rev": "1"},
		[]uploadFile{
			{field: "files", name: "assembly.pdf", content: "pdf bytes"},
			{field: "files", name: "flange.dwg", content: "dwg bytes"},
		})
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["uploaded"])

	assert.True(t, s3.FileExists("drawings/QT2501T-0001_Rev1_assembly.pdf"))
	assert.Len(t, mock.Rows("drawings"), 3)
}

func TestUploadDrawingsEndpointRejectsBadFormat(t *testing.T) {
	setupMockStore()
	services.NewMockS3Service().SetAsMockForTesting()
	router := setupTestRouter()
	router.POST("/upload_drawing", UploadDrawings)

	w := performMultipart(t, router, "/upload_drawing",
		map[string]string{"quotation_no": "QT2501T-0001", "rev": "1"},
		[]uploadFile{{field: "files", name: "malware.exe", content: "x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, w, "INVALID_FILE")
}

func TestUploadDrawingsEndpointRequiresQuotationNo(t *testing.T) {
	setupMockStore()
	services.NewMockS3Service().SetAsMockForTesting()
	router := setupTestRouter()
	router.POST("/upload_drawing", UploadDrawings)

	w := performMultipart(t, router, "/upload_drawing",
		map[string]string{"rev": "1"},
		[]uploadFile{{field: "files", name: "a.pdf", content: "x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, w, "VALIDATION_ERROR")
}

func TestDrawingFilesEndpoint(t *testing.T) {
	mock := setupMockStore()
	mock.Seed("drawings", [][]string{
		models.DrawingColumns,
		{"QT2501T-0001", "", "assembly.pdf", "https://bucket/a"},
		{"QT2501T-0002", "1", "other.pdf", "https://bucket/b"},
	})
	router := setupTestRouter()
	router.GET("/drawing_files", DrawingFiles)

	w := performJSON(router, http.MethodGet, "/drawing_files", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.Len(t, response["data"].([]interface{}), 2)

	w = performJSON(router, http.MethodGet, "/drawing_files?quotation_no=QT2501T-0001&rev=0", nil)
	response = parseResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	drawing := data[0].(map[string]interface{})
	assert.Equal(t, "assembly.pdf", drawing["drawing_name"])
}
