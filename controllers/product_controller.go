package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/services"
)

// SaveBasicProduct handles POST /save_basic_product - appends a basic
// product row
func SaveBasicProduct(c *gin.Context) {
	var product models.BasicProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := services.GetCatalogService().SaveBasicProduct(&product); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddPipe handles POST /add_pipe - appends a custom pipe row with a
// generated product id
func AddPipe(c *gin.Context) {
	var pipe models.PipeProduct
	if err := c.ShouldBindJSON(&pipe); err != nil {
		respondBindingError(c, err)
		return
	}

	productID, err := services.GetCatalogService().AddPipe(&pipe)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"product_id": productID},
	})
}

// UpdateProduct handles PUT /update_product/:product_id - rewrites the
// matching product row in the pipe or basic sheet
func UpdateProduct(c *gin.Context) {
	var upd models.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := services.GetCatalogService().UpdateProduct(c.Param("product_id"), &upd); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteProduct handles DELETE /delete_product/:product_id - removes the
// single matching product row
func DeleteProduct(c *gin.Context) {
	if err := services.NewCascadeService().DeleteProduct(c.Param("product_id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BasicProducts handles GET /basic_products?page=&size=&category= - returns
// one page of products across the basic and pipe sheets
func BasicProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	items, total, err := services.GetCatalogService().BasicProducts(page, size, c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items": items,
			"total": total,
		},
	})
}

// ProductCountsByCategory handles GET /product_counts_by_category
func ProductCountsByCategory(c *gin.Context) {
	counts, err := services.GetCatalogService().ProductCountsByCategory()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

// RefreshData handles POST /refresh_data - reloads the catalog cache
func RefreshData(c *gin.Context) {
	catalog := services.GetCatalogService()
	if err := catalog.Refresh(); err != nil {
		respondServiceError(c, err)
		return
	}

	products, categories := catalog.CachedCounts()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"status":         "refreshed",
			"product_count":  products,
			"category_count": categories,
		},
	})
}
