package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purchase-mwave/quotevend-api/services"
)

// UploadExcel handles POST /upload_excel - ingests an exported master list
// workbook into its target sheet, replacing the previous data rows
func UploadExcel(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBindingError(c, err)
		return
	}

	sheet, count, err := services.NewExcelService().ImportWorkbook(fileHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"sheet": sheet,
			"count": count,
		},
	})
}
