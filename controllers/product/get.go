package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

// GetProducts lists active products, optionally filtered by category and a
// search term over name/tagline/description.
// GET /products?category=...&search=...&limit=...
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("is_active = ?", true)

		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			query = query.Where("name LIKE ? OR tagline LIKE ? OR description LIKE ?", like, like, like)
		}
		if limitStr := c.Query("limit"); limitStr != "" {
			if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
				query = query.Limit(limit)
			}
		}

		var products []models.Product
		if err := query.Order("category, name").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetFeaturedProducts returns the storefront's highlighted picks.
// GET /products/featured?limit=3
func GetFeaturedProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 3
		if limitStr := c.Query("limit"); limitStr != "" {
			if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
				limit = n
			}
		}

		var products []models.Product
		if err := db.
			Where("is_active = ?", true).
			Order("featured DESC, created_at DESC").
			Limit(limit).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetCategories lists the distinct categories of active products.
// GET /categories
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []string
		if err := db.Model(&models.Product{}).
			Where("is_active = ?", true).
			Distinct("category").
			Order("category").
			Pluck("category", &categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GetProductByID returns a single active product.
// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
