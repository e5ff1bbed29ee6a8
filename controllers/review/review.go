package reviewControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	discountControllers "github.com/techmart-online/storefront-api/controllers/discount"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

type SubmitReviewRequest struct {
	OrderID  uint   `json:"order_id" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

const maxCommentLength = 2000

// POST /reviews
// Reviews are accepted only from the email the order was placed with, once
// per order.
func SubmitReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var errs []string
		email := discountControllers.NormalizeEmail(req.Email)
		name := strings.TrimSpace(req.Name)
		comments := strings.TrimSpace(req.Comments)

		if email == "" {
			errs = append(errs, "Enter the email address used at checkout so we can verify your order.")
		}
		if name == "" {
			errs = append(errs, "Let us know who we can thank for the feedback.")
		}
		if req.Rating < 1 || req.Rating > 5 {
			errs = append(errs, "Choose a rating between 1 and 5 stars.")
		}
		if len(comments) > maxCommentLength {
			errs = append(errs, "Reviews are limited to 2000 characters.")
		}
		if errs != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}

		var order models.Order
		if err := db.First(&order, req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "We could not find an order with that number. Please double-check and try again."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify order"})
			return
		}
		if !strings.EqualFold(order.CustomerEmail, email) {
			c.JSON(http.StatusForbidden, gin.H{"error": "The email does not match the one on file for that order."})
			return
		}

		var existing models.OrderReview
		err := db.Where("order_id = ? AND reviewer_email = ?", req.OrderID, email).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "It looks like you have already shared a review for this order. Thank you!"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing reviews"})
			return
		}

		review := models.OrderReview{
			OrderID:       req.OrderID,
			ReviewerName:  name,
			ReviewerEmail: email,
			Rating:        req.Rating,
			Comments:      comments,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Thanks for leaving a review!", "review": review})
	}
}

// GET /reviews: recent reviews for the public storefront.
func ListReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.OrderReview
		if err := db.Order("created_at DESC").Limit(50).Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// GET /admin/reviews: the full moderation list, newest first.
func GetAllReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.OrderReview
		if err := db.Order("created_at DESC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// DELETE /admin/reviews/:id
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.OrderReview{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}
