package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/config"
	orderControllers "github.com/techmart-online/storefront-api/controllers/order"
	productControllers "github.com/techmart-online/storefront-api/controllers/product"
	reviewControllers "github.com/techmart-online/storefront-api/controllers/review"
	"github.com/techmart-online/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers the back office, protected by the admin API key.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(cfg))
	{
		adminGroup.GET("/products", productControllers.GetAllProductsAdmin(db))
		adminGroup.POST("/products", productControllers.CreateProduct(db))
		adminGroup.PUT("/products/:id", productControllers.UpdateProduct(db))
		adminGroup.DELETE("/products/:id", productControllers.ArchiveProduct(db))
		adminGroup.GET("/products/export", productControllers.ExportProductsToExcel(db))
		adminGroup.POST("/products/import", productControllers.ImportProductsFromExcel(db))

		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		adminGroup.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))

		adminGroup.GET("/reviews", reviewControllers.GetAllReviewsHandler(db))
		adminGroup.DELETE("/reviews/:id", reviewControllers.DeleteReviewHandler(db))
	}
}
