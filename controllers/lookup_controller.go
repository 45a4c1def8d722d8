package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purchase-mwave/quotevend-api/services"
)

// CompanyLookup handles GET /company_lookup?query= - resolves a company
// name fragment to its master record and contact persons
func CompanyLookup(c *gin.Context) {
	info, err := services.NewLookupService().CompanyLookup(c.Query("query"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    info,
	})
}

// SalesLookupByCode handles GET /sales_lookup_by_code?code=
func SalesLookupByCode(c *gin.Context) {
	name, mobile, err := services.NewLookupService().SalesLookupByCode(c.Query("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"salesPerson": name,
			"salesMobile": mobile,
		},
	})
}

// ContactLookupByCode handles GET /contact_lookup_by_code?code=
func ContactLookupByCode(c *gin.Context) {
	name, tel, err := services.NewLookupService().ContactLookupByCode(c.Query("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"contactPerson": name,
			"contactTel":    tel,
		},
	})
}
