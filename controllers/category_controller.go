package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/services"
)

// AddCategory handles POST /add_category - appends a category row
func AddCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := services.GetCatalogService().AddCategory(&cat); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListCategories handles GET /categories - returns every category row
func ListCategories(c *gin.Context) {
	categories, err := services.GetCatalogService().Categories()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// UpdateCategory handles PUT /update_category/:category_id - rewrites the
// matching category row
func UpdateCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := services.GetCatalogService().UpdateCategory(c.Param("category_id"), &cat); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteCategory handles DELETE /delete_category/:category_id - removes the
// category row and cascades to every product in that category
func DeleteCategory(c *gin.Context) {
	deleted, err := services.NewCascadeService().DeleteCategory(c.Param("category_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deletedProducts": deleted},
	})
}
