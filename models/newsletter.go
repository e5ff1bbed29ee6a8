package models

import "time"

type NewsletterSubscriber struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Preference  string    `json:"preference"`
	BudgetFocus string    `json:"budget_focus"`
	CreatedAt   time.Time `json:"created_at"`
}
