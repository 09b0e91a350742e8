// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricebyte/catalog-backend/internal/config"
	"github.com/pricebyte/catalog-backend/internal/handlers"
	"github.com/pricebyte/catalog-backend/internal/matching"
	"github.com/pricebyte/catalog-backend/internal/middleware"
	"github.com/pricebyte/catalog-backend/internal/services"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	matcher := matching.NewMatcher(
		cfg.Matcher.Weights(),
		cfg.Matcher.Threshold,
		cfg.Matcher.NarrowCandidates,
	)
	priceService := services.NewPriceService(db, cfg.Matcher.MaxRetries)
	catalogService := services.NewCatalogService(db, matcher, priceService, cfg.Matcher.MaxRetries)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(catalogService)
	priceHandler := handlers.NewPriceHandler(priceService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))

	// Rate limits are per client IP; in-process test runs share one IP and
	// would trip them immediately.
	if cfg.Environment != "test" {
		r.Use(middleware.GeneralRateLimit())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("", middleware.IngestRateLimit(), productHandler.IngestProduct)
			products.GET("", productHandler.GetProducts)
			products.GET("/search", productHandler.SearchProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/stores/:store", productHandler.GetStoreListing)
		}

		listings := v1.Group("/listings")
		{
			listings.PUT("/:id/price", priceHandler.UpdatePrice)
			listings.GET("/:id/history", priceHandler.GetPriceHistory)
		}
	}

	return r
}
