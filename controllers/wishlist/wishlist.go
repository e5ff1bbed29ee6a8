package wishlistControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

type WishlistInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GET /user/wishlist: active products only, most recently added first.
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var products []models.Product
		if err := db.Model(&models.Product{}).
			Joins("INNER JOIN wishlist_items ON wishlist_items.product_id = products.id").
			Where("wishlist_items.user_id = ? AND products.is_active = ?", userID, true).
			Order("wishlist_items.added_at DESC, products.name ASC").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// POST /user/wishlist is idempotent; re-adding refreshes the timestamp.
func AddToWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input WishlistInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}

		var product models.Product
		if err := db.Where("id = ? AND is_active = ?", input.ProductID, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		var item models.WishlistItem
		err := db.Where("user_id = ? AND product_id = ?", userID, input.ProductID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.WishlistItem{
				UserID:    userID.(uint),
				ProductID: input.ProductID,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist"})
				return
			}
			c.JSON(http.StatusCreated, item)
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist item"})
		default:
			item.AddedAt = time.Now()
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
				return
			}
			c.JSON(http.StatusOK, item)
		}
	}
}

// DELETE /user/wishlist/:product_id
func RemoveFromWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID := c.Param("product_id")

		result := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
	}
}
