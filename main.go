package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/controllers"
	"github.com/purchase-mwave/quotevend-api/middleware"
	"github.com/purchase-mwave/quotevend-api/services"
)

func main() {
	log.Println("Starting QuoteVend API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The local row store needs a database behind it
	if !cfg.UseSheetsBackend() {
		if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
	}

	// The store handle and resolved sheet identities are process-wide
	// state, initialized once before serving and never re-resolved
	// mid-request
	if _, err := services.InitRowStore(cfg); err != nil {
		log.Fatalf("Failed to initialize row store: %v", err)
	}

	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
	} else {
		log.Println("AWS_S3_BUCKET not set, drawing uploads disabled")
	}

	if _, err := services.InitCatalogService(); err != nil {
		log.Fatalf("Failed to load catalog cache: %v", err)
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter registers every route on a fresh engine
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// Quotations
	router.POST("/add_quotation", controllers.SubmitQuotation)
	router.GET("/quotation/:quotation_no", controllers.GetQuotation)
	router.GET("/quotation_list", controllers.ListQuotations)
	router.GET("/revisions/:quotation_no", controllers.ListRevisions)
	router.GET("/latest_quotation_no", controllers.LatestQuotationNo)
	router.POST("/update_quotation_status", controllers.UpdateQuotationStatus)
	router.POST("/update_dwg_column", controllers.UpdateDwgColumn)

	// Drawings
	router.POST("/upload_drawing", controllers.UploadDrawings)
	router.GET("/drawing_files", controllers.DrawingFiles)

	// Catalog reads
	router.GET("/categories", controllers.ListCategories)
	router.GET("/basic_products", controllers.BasicProducts)
	router.GET("/product_counts_by_category", controllers.ProductCountsByCategory)

	// Lookups against the master sheets
	router.GET("/company_lookup", controllers.CompanyLookup)
	router.GET("/sales_lookup_by_code", controllers.SalesLookupByCode)
	router.GET("/contact_lookup_by_code", controllers.ContactLookupByCode)

	// Catalog mutations and master imports; JWT-protected when configured
	admin := router.Group("/")
	if cfg.AuthEnabled() {
		admin.Use(middleware.EnsureValidToken(cfg))
	}
	admin.POST("/add_category", controllers.AddCategory)
	admin.PUT("/update_category/:category_id", controllers.UpdateCategory)
	admin.DELETE("/delete_category/:category_id", controllers.DeleteCategory)
	admin.POST("/save_basic_product", controllers.SaveBasicProduct)
	admin.POST("/add_pipe", controllers.AddPipe)
	admin.PUT("/update_product/:product_id", controllers.UpdateProduct)
	admin.DELETE("/delete_product/:product_id", controllers.DeleteProduct)
	admin.POST("/upload_excel", controllers.UploadExcel)
	admin.POST("/refresh_data", controllers.RefreshData)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "QuoteVend API is running",
	})
}
