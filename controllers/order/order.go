package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/config"
	cartControllers "github.com/techmart-online/storefront-api/controllers/cart"
	discountControllers "github.com/techmart-online/storefront-api/controllers/discount"
	"github.com/techmart-online/storefront-api/mailer"
	"github.com/techmart-online/storefront-api/middleware"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Address       string `json:"address" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	PromoCode     string `json:"promo_code"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Errors --------

// ValidationErrors carries the full list of user-facing input problems. No
// mutation has been attempted when one is returned.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

// StockConflictError means a cart line lost the stock race during
// reservation; the whole order was rolled back and the cart left untouched.
type StockConflictError struct {
	ProductName string
	Message     string
}

func (e StockConflictError) Error() string {
	return e.Message
}

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z '\-]+$`)

var allowedPaymentMethods = map[string]bool{
	"Card":          true,
	"PayNow":        true,
	"Bank Transfer": true,
}

const minAddressLength = 10

// -------- Core Logic --------

// PlaceOrder converts the user's cart into a persisted Order + OrderItem set:
// it re-validates stock per line, computes totals with an optional single-use
// discount, and commits everything in one transaction. Stock decrements and
// discount redemption rely on conditional UPDATEs checked by affected-row
// count, so concurrent checkouts can never drive stock negative or redeem a
// code twice. The confirmation email and cart clear happen after commit and
// are best effort.
func PlaceOrder(db *gorm.DB, cfg config.Config, userID uint, req PlaceOrderRequest) (*models.Order, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	lines, err := models.FetchCartLines(db, userID)
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, ValidationErrors{"Your cart is empty. Add products before checking out."}
	}

	var validation ValidationErrors

	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || !namePattern.MatchString(name) {
		validation = append(validation, "Please provide your full name.")
	}

	// The order email is not free text: it must be the authenticated
	// account's email.
	email := discountControllers.NormalizeEmail(req.Email)
	if email == "" || email != discountControllers.NormalizeEmail(user.Email) {
		validation = append(validation, "Please use the email address registered to your account.")
	}

	address := strings.TrimSpace(req.Address)
	if len(address) < minAddressLength {
		validation = append(validation, "Please provide a complete shipping address.")
	}

	if !allowedPaymentMethods[strings.TrimSpace(req.PaymentMethod)] {
		validation = append(validation, "Please choose a payment method.")
	}

	if validation != nil {
		return nil, validation
	}

	// Re-validate any promo code fresh, right before totals are computed. A
	// bad code aborts placement rather than silently dropping the discount.
	var discount *models.DiscountCode
	if strings.TrimSpace(req.PromoCode) != "" {
		result, err := discountControllers.Validate(db, req.PromoCode, user.Email)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, ValidationErrors{result.Message}
		}
		discount = result.Discount
	}

	// Same computation the cart totals preview runs.
	totals := cartControllers.CalculateCartTotals(lines, discount)
	promoCode := ""
	if discount != nil {
		promoCode = discount.Code
	}

	order := models.Order{
		UserID:          &user.ID,
		CustomerName:    name,
		CustomerEmail:   email,
		ShippingAddress: address,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		Subtotal:        totals.Subtotal,
		DiscountAmount:  totals.DiscountAmount,
		PromoCode:       promoCode,
		Total:           totals.Total,
		Status:          models.OrderStatusProcessing,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			// Defends against stock having changed between page render and
			// submit; the conditional decrement below is still authoritative.
			if line.Quantity > line.Stock {
				return StockConflictError{
					ProductName: line.ProductName,
					Message:     "Insufficient stock for " + line.ProductName,
				}
			}

			reserved, err := models.ReserveStock(tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !reserved {
				return StockConflictError{
					ProductName: line.ProductName,
					Message:     "Unable to reserve stock for " + line.ProductName + ". Please update your cart and try again.",
				}
			}

			item := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		if discount != nil {
			redeemed, err := models.RedeemDiscountCode(tx, discount.ID, order.ID, &user.ID)
			if err != nil {
				return err
			}
			if !redeemed {
				// Lost the redemption race to a concurrent checkout.
				return ValidationErrors{"That discount code has already been used."}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effects are best effort: a failed email or cart clear
	// never turns a committed order into a failure.
	mailer.SendOrderConfirmation(cfg, order, order.Items)
	if err := models.ClearCart(db, userID); err != nil {
		log.Printf("Failed to clear cart for user %d after order #%d: %v", userID, order.ID, err)
	}
	middleware.RecordOrderPlaced(string(order.Status))
	broadcastOrderEvent("order_placed", order)

	return &order, nil
}

// -------- Handlers --------

// POST /user/orders
func PlaceOrderHandler(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := PlaceOrder(db, cfg, userID.(uint), req)
		if err != nil {
			var validation ValidationErrors
			var stockConflict StockConflictError
			switch {
			case errors.As(err, &validation):
				c.JSON(http.StatusBadRequest, gin.H{"errors": []string(validation)})
			case errors.As(err, &stockConflict):
				c.JSON(http.StatusConflict, gin.H{"errors": []string{stockConflict.Message}})
			default:
				// Full detail stays in the server log, never the response.
				log.Printf("Order placement failed for user %v: %v", userID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to place your order right now. Please try again."})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order_id": order.ID, "order": order})
	}
}

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/track?order=<id>&email=<checkout email>
// Guest-friendly tracking: an order is revealed only when both the id and the
// checkout email match.
func TrackOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Query("order"))
		email := discountControllers.NormalizeEmail(c.Query("email"))
		if err != nil || orderID <= 0 || email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order and email are required"})
			return
		}

		var order models.Order
		if err := db.
			Preload("Items").
			Where("id = ? AND LOWER(customer_email) = ?", orderID, email).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "We could not find an order with those details. Please double-check your information."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
// Status moves only along the explicit transition table.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if !models.CanTransition(order.Status, newStatus) {
			c.JSON(http.StatusConflict, gin.H{
				"error": fmt.Sprintf("cannot move order from %s to %s", order.Status, newStatus),
			})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}

		order.Status = newStatus
		broadcastOrderEvent("status_changed", order)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "status": newStatus})
	}
}
