package models

import (
	"time"

	"gorm.io/gorm"
)

// DiscountCode is a single-use, email-scoped token granting a percentage
// reduction on one order's subtotal. A code reaches its terminal state
// exactly once, atomically with the order that consumed it.
type DiscountCode struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	Code                   string     `gorm:"uniqueIndex;not null" json:"code"`
	Email                  string     `gorm:"index;not null" json:"email"`
	DiscountPercent        float64    `gorm:"not null" json:"discount_percent"`
	MaxUses                int        `gorm:"default:1" json:"max_uses"`
	NewsletterSubscriberID uint       `json:"newsletter_subscriber_id"`
	RedeemedAt             *time.Time `json:"redeemed_at"`
	RedeemedOrderID        *uint      `json:"redeemed_order_id"`
	RedeemedByUserID       *uint      `json:"redeemed_by_user_id"`
	ExpiresAt              *time.Time `json:"expires_at"`
	CreatedAt              time.Time  `json:"created_at"`
}

// RedeemDiscountCode marks a code consumed, gated on it still being
// unredeemed. Returns false if another checkout redeemed it first. Must run
// inside the same transaction that creates the order, so that
// validated-then-redeemed races roll back cleanly.
func RedeemDiscountCode(tx *gorm.DB, discountID, orderID uint, userID *uint) (bool, error) {
	now := time.Now()
	res := tx.Model(&DiscountCode{}).
		Where("id = ? AND redeemed_at IS NULL", discountID).
		Updates(map[string]interface{}{
			"redeemed_at":         now,
			"redeemed_order_id":   orderID,
			"redeemed_by_user_id": userID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
