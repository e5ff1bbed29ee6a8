package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/config"
	cartControllers "github.com/techmart-online/storefront-api/controllers/cart"
	discountControllers "github.com/techmart-online/storefront-api/controllers/discount"
	orderControllers "github.com/techmart-online/storefront-api/controllers/order"
	userControllers "github.com/techmart-online/storefront-api/controllers/user"
	wishlistControllers "github.com/techmart-online/storefront-api/controllers/wishlist"
	"github.com/techmart-online/storefront-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(cfg))
	{
		userGroup.GET("/", userControllers.GetUser(db))

		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(db))
			cartGroup.GET("/totals", cartControllers.GetCartTotals(db))
			cartGroup.POST("/", cartControllers.AddCartItem(db))
			cartGroup.PUT("/", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(db))
		}

		wishlistGroup := userGroup.Group("/wishlist")
		{
			wishlistGroup.GET("/", wishlistControllers.GetWishlist(db))
			wishlistGroup.POST("/", wishlistControllers.AddToWishlist(db))
			wishlistGroup.DELETE("/:product_id", wishlistControllers.RemoveFromWishlist(db))
		}

		userGroup.POST("/discounts/validate", discountControllers.ValidateDiscountHandler(db))

		userGroup.POST("/orders", orderControllers.PlaceOrderHandler(db, cfg))
		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(db))
	}
}
