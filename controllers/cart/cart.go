package cartControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	discountControllers "github.com/techmart-online/storefront-api/controllers/discount"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CartTotals is the money summary for a set of cart lines.
type CartTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

// CalculateCartTotals sums the lines and applies an optional discount,
// clamping the total at zero. Checkout runs the same computation, so the
// preview a shopper sees matches what the order records.
func CalculateCartTotals(lines []models.CartLine, discount *models.DiscountCode) CartTotals {
	var totals CartTotals
	for _, line := range lines {
		totals.Subtotal += line.LineTotal
	}
	if discount != nil {
		totals.DiscountAmount = discountControllers.ComputeDiscountAmount(discount.DiscountPercent, totals.Subtotal)
	}
	totals.Total = totals.Subtotal - totals.DiscountAmount
	if totals.Total < 0 {
		totals.Total = 0
	}
	return totals
}

// cartView is what the cart endpoints return: the joined lines plus totals.
type cartView struct {
	Items []models.CartLine `json:"items"`
	CartTotals
}

func buildCartView(db *gorm.DB, userID uint) (cartView, error) {
	lines, err := models.FetchCartLines(db, userID)
	if err != nil {
		return cartView{}, err
	}
	return cartView{Items: lines, CartTotals: CalculateCartTotals(lines, nil)}, nil
}

// GET /user/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		view, err := buildCartView(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// GET /user/cart/totals?code=<promo code>
// Previews checkout totals. An invalid code is reported in the response and
// simply not applied; it never blocks the preview.
func GetCartTotals(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		email, exists := c.Get("user_email")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		lines, err := models.FetchCartLines(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		response := gin.H{}
		var discount *models.DiscountCode
		if code := c.Query("code"); strings.TrimSpace(code) != "" {
			result, err := discountControllers.Validate(db, code, email.(string))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate discount code"})
				return
			}
			if result.Valid {
				discount = result.Discount
			}
			response["code_valid"] = result.Valid
			response["code_message"] = result.Message
		}

		response["totals"] = CalculateCartTotals(lines, discount)
		c.JSON(http.StatusOK, response)
	}
}

// POST /user/cart: adds the quantity onto any existing line for the product.
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil || input.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id and a positive quantity are required"})
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

		var item models.CartItem
		err := db.Where("user_id = ? AND product_id = ?", userID, input.ProductID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				UserID:    userID.(uint),
				ProductID: product.ID,
				Quantity:  input.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
			c.JSON(http.StatusCreated, item)
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
		default:
			item.Quantity += input.Quantity
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
				return
			}
			c.JSON(http.StatusOK, item)
		}
	}
}

// PUT /user/cart: sets the quantity outright; zero or less removes the line.
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.Quantity <= 0 {
			db.Where("user_id = ? AND product_id = ?", userID, input.ProductID).Delete(&models.CartItem{})
			c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
			return
		}

		var item models.CartItem
		err := db.Where("user_id = ? AND product_id = ?", userID, input.ProductID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				UserID:    userID.(uint),
				ProductID: input.ProductID,
				Quantity:  input.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
			c.JSON(http.StatusCreated, item)
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		item.Quantity = input.Quantity
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID := c.Param("product_id")

		result := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := models.ClearCart(db, userID.(uint)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
