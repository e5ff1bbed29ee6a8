package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	CartItems    []CartItem `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders       []Order    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
