package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is a user's unpurchased intent to buy: one row per
// (user, product) pair, removed on checkout or explicit clear.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// CartLine is a cart item joined with its product, as consumed by checkout
// and the cart views.
type CartLine struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	UnitPrice   float64 `json:"unit_price"`
	Stock       int     `json:"stock"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

// FetchCartLines returns the user's cart joined with active products, in
// insertion order. The stable ordering matters: checkout reserves stock line
// by line in this exact order.
func FetchCartLines(db *gorm.DB, userID uint) ([]CartLine, error) {
	var lines []CartLine
	err := db.Model(&CartItem{}).
		Select("cart_items.product_id, products.name AS product_name, products.category, products.price AS unit_price, products.stock, cart_items.quantity").
		Joins("INNER JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ? AND products.is_active = ?", userID, true).
		Order("cart_items.added_at ASC, products.name ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice * float64(lines[i].Quantity)
	}
	return lines, nil
}

// ClearCart removes every cart row for the user.
func ClearCart(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&CartItem{}).Error
}
