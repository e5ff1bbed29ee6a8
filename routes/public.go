package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/config"
	newsletterControllers "github.com/techmart-online/storefront-api/controllers/newsletter"
	orderControllers "github.com/techmart-online/storefront-api/controllers/order"
	productControllers "github.com/techmart-online/storefront-api/controllers/product"
	reviewControllers "github.com/techmart-online/storefront-api/controllers/review"
	userControllers "github.com/techmart-online/storefront-api/controllers/user"
	"gorm.io/gorm"
)

// SetupPublicRoutes registers everything reachable without a token: catalog
// browsing, guest order tracking, reviews, newsletter signup and auth.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.POST("/auth/register", userControllers.RegisterHandler(db))
	r.POST("/auth/login", userControllers.LoginHandler(db, cfg))

	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/featured", productControllers.GetFeaturedProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))
	r.GET("/categories", productControllers.GetCategories(db))

	r.GET("/orders/track", orderControllers.TrackOrderHandler(db))
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)

	r.GET("/reviews", reviewControllers.ListReviewsHandler(db))
	r.POST("/reviews", reviewControllers.SubmitReviewHandler(db))

	r.POST("/newsletter/subscribe", newsletterControllers.SubscribeHandler(db, cfg))
}
