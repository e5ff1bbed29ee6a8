package models

import "time"

// OrderReview is customer feedback tied to a delivered order. One review per
// (order, reviewer email) pair.
type OrderReview struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"uniqueIndex:idx_review_order_email;not null" json:"order_id"`
	ReviewerName  string    `gorm:"not null" json:"reviewer_name"`
	ReviewerEmail string    `gorm:"uniqueIndex:idx_review_order_email;not null" json:"reviewer_email"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
}
