package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Tagline     string   `json:"tagline"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	Stock       *int     `json:"stock" binding:"required"`
	Image       string   `json:"image"`
	Featured    bool     `json:"featured"`
}

// GetAllProductsAdmin includes archived rows, unlike the public listing.
// GET /admin/products
func GetAllProductsAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("category, name").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if *input.Price < 0 || *input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price and stock must not be negative"})
			return
		}

		product := models.Product{
			Name:        input.Name,
			Tagline:     input.Tagline,
			Description: input.Description,
			Category:    input.Category,
			Price:       *input.Price,
			Stock:       *input.Stock,
			Image:       input.Image,
			Featured:    input.Featured,
			IsActive:    true,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if *input.Price < 0 || *input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price and stock must not be negative"})
			return
		}

		product.Name = input.Name
		product.Tagline = input.Tagline
		product.Description = input.Description
		product.Category = input.Category
		product.Price = *input.Price
		product.Stock = *input.Stock
		product.Image = input.Image
		product.Featured = input.Featured

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:id: archives rather than deletes, so order items
// keep a resolvable product reference.
func ArchiveProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		result := db.Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product archived"})
	}
}
