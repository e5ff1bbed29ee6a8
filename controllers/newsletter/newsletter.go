package newsletterControllers

import (
	"errors"
	"log"
	"net/http"
	"net/mail"

	"github.com/gin-gonic/gin"
	"github.com/techmart-online/storefront-api/config"
	discountControllers "github.com/techmart-online/storefront-api/controllers/discount"
	"github.com/techmart-online/storefront-api/mailer"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

type SubscribeRequest struct {
	Email      string `json:"email" binding:"required"`
	Preference string `json:"preference" binding:"required"`
	Budget     string `json:"budget" binding:"required"`
	Terms      bool   `json:"terms"`
}

// POST /newsletter/subscribe
// First subscription stores the subscriber, issues their single-use welcome
// code and emails it. Subscribing again just re-sends the existing code as a
// reminder: issuance is idempotent per email.
func SubscribeHandler(db *gorm.DB, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please complete all fields before subscribing."})
			return
		}

		email := discountControllers.NormalizeEmail(req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide a valid email."})
			return
		}
		if !req.Terms {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please complete all fields before subscribing."})
			return
		}

		var existing models.NewsletterSubscriber
		err := db.Where("email = ?", email).First(&existing).Error
		if err == nil {
			code, issueErr := discountControllers.IssueNewsletterCode(db, existing.ID, email, cfg.NewsletterDiscountPercent)
			if issueErr != nil {
				log.Printf("Failed to issue reminder code for %s: %v", email, issueErr)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Unable to save your subscription right now."})
				return
			}
			mailer.SendNewsletterDiscountEmail(cfg, email, code.Code, code.DiscountPercent, true)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "You are already subscribed! We have re-sent your discount code."})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Unable to save your subscription right now."})
			return
		}

		subscriber := models.NewsletterSubscriber{
			Email:       email,
			Preference:  req.Preference,
			BudgetFocus: req.Budget,
		}
		if err := db.Create(&subscriber).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Unable to save your subscription right now."})
			return
		}

		code, err := discountControllers.IssueNewsletterCode(db, subscriber.ID, email, cfg.NewsletterDiscountPercent)
		if err != nil {
			log.Printf("Failed to issue welcome code for %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Unable to save your subscription right now."})
			return
		}

		mailer.SendNewsletterDiscountEmail(cfg, email, code.Code, code.DiscountPercent, false)
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Welcome aboard! Check your inbox for your discount code."})
	}
}
