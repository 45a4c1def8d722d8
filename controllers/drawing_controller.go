package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purchase-mwave/quotevend-api/services"
	"github.com/purchase-mwave/quotevend-api/utils"
)

// UploadDrawings handles POST /upload_drawing - stores the uploaded drawing
// files in object storage and appends one attachment row per file
func UploadDrawings(c *gin.Context) {
	quotationNo := c.PostForm("quotation_no")
	rev := c.PostForm("rev")

	form, err := c.MultipartForm()
	if err != nil {
		respondBindingError(c, err)
		return
	}
	files := form.File["files"]

	for _, file := range files {
		if err := utils.ValidateDrawingFile(file); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_FILE",
					"message": err.Error(),
				},
			})
			return
		}
	}

	uploaded, err := services.NewDrawingService().UploadDrawings(quotationNo, rev, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"uploaded": uploaded},
	})
}

// DrawingFiles handles GET /drawing_files?quotation_no=&rev= - lists
// drawing attachments, filtered to one (quotation_no, rev) pair when a
// quotation number is given
func DrawingFiles(c *gin.Context) {
	svc := services.NewDrawingService()

	quotationNo, hasFilter := c.GetQuery("quotation_no")
	var err error
	var drawings interface{}
	if hasFilter {
		drawings, err = svc.ListFor(quotationNo, c.Query("rev"))
	} else {
		drawings, err = svc.ListAll()
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    drawings,
	})
}
