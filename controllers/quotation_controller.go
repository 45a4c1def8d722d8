package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/services"
	"github.com/purchase-mwave/quotevend-api/utils"
)

// SubmitQuotation handles POST /add_quotation - runs a submission through
// the revision engine. An unchanged resubmission of the latest revision is
// reported as skipped with the previous revision number; nothing is written.
func SubmitQuotation(c *gin.Context) {
	var sub models.QuotationSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := services.NewQuotationService().Submit(&sub)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// GetQuotation handles GET /quotation/:quotation_no?rev= - returns the
// joined quotation detail for one revision (rev omitted means revision 0)
func GetQuotation(c *gin.Context) {
	detail, err := services.NewQuotationService().Get(c.Param("quotation_no"), c.Query("rev"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    detail,
	})
}

// ListQuotations handles GET /quotation_list?status= - returns the sorted
// unique quotation numbers, optionally filtered by status
func ListQuotations(c *gin.Context) {
	numbers, err := services.NewQuotationService().ListNumbers(c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    numbers,
	})
}

// ListRevisions handles GET /revisions/:quotation_no - returns the sorted
// revision numbers of a quotation
func ListRevisions(c *gin.Context) {
	revs, err := services.NewQuotationService().ListRevisions(c.Param("quotation_no"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    revs,
	})
}

// LatestQuotationNo handles GET /latest_quotation_no?prefix= - returns the
// highest quotation number allocated under the prefix
func LatestQuotationNo(c *gin.Context) {
	last, err := services.NewQuotationService().LatestNumber(c.Query("prefix"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"last": last},
	})
}

// UpdateStatusRequest is the request body for updating a quotation status
type UpdateStatusRequest struct {
	QuotationNo string      `json:"quotation_no" binding:"required"`
	Rev         interface{} `json:"rev"`
	Status      string      `json:"status" binding:"required"`
}

// UpdateQuotationStatus handles POST /update_quotation_status - overwrites
// the status cell of every matching item row and the one matching customer
// row
func UpdateQuotationStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	rev, ok := utils.ParseRev(utils.Stringify(req.Rev))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid rev",
			},
		})
		return
	}

	if err := services.NewQuotationService().UpdateStatus(req.QuotationNo, rev, req.Status); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status updated successfully in both sheets",
	})
}

// UpdateDwgRequest is the request body for linking items to drawing names;
// each row is [quotation_no, rev, product_id, drawing_name]
type UpdateDwgRequest struct {
	Rows [][]string `json:"rows" binding:"required"`
}

// UpdateDwgColumn handles POST /update_dwg_column - fills the dwg cell of
// the item rows identified by (quotation_no, rev, product_id)
func UpdateDwgColumn(c *gin.Context) {
	var req UpdateDwgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	links := make([][4]string, 0, len(req.Rows))
	for _, row := range req.Rows {
		var link [4]string
		for i := 0; i < len(row) && i < 4; i++ {
			link[i] = strings.TrimSpace(row[i])
		}
		links = append(links, link)
	}

	updated, err := services.NewQuotationService().AttachDrawingNames(links)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"updated": updated},
	})
}
