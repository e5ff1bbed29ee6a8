package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Tagline     string  `json:"tagline"`
	Description string  `json:"description"`
	Category    string  `gorm:"index" json:"category"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `gorm:"not null;default:0" json:"stock"`
	Image       string  `json:"image"`
	Featured    bool    `gorm:"default:false" json:"featured"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReserveStock atomically decrements a product's stock, provided enough
// remains. Returns false when the conditional update matched no row, i.e.
// another checkout won the race or the product vanished. This is the only
// concurrency-control mechanism guarding stock: no row locks, just the
// affected-row count of a compare-and-swap style UPDATE.
func ReserveStock(tx *gorm.DB, productID uint, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, nil
	}
	res := tx.Model(&Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
