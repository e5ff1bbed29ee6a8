package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	// Fulfillment lifecycle. The legacy storefront inferred these stages by
	// substring-matching a free-text status column; here the set is closed
	// and transitions go through CanTransition.
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// orderTransitions is the explicit transition table: forward through the
// fulfillment stages, with cancellation allowed only before shipping.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing:     {OrderStatusPacked, OrderStatusCancelled},
	OrderStatusPacked:         {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// ParseOrderStatus maps a request string onto the closed status set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := orderTransitions[status]; !ok {
		return "", errors.New("invalid order status")
	}
	return status, nil
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          *uint       `gorm:"index" json:"user_id"`
	CustomerName    string      `gorm:"not null" json:"customer_name"`
	CustomerEmail   string      `gorm:"not null;index" json:"customer_email"`
	ShippingAddress string      `gorm:"not null" json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Subtotal        float64     `json:"subtotal"`
	DiscountAmount  float64     `json:"discount_amount"`
	PromoCode       string      `json:"promo_code"`
	Total           float64     `gorm:"not null" json:"total"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'processing'" json:"status"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItem snapshots quantity and unit price at purchase time, decoupled
// from later product price edits. Rows are append-only children of Order.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"order_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
}

// LineTotal is the item's contribution to the order subtotal.
func (oi OrderItem) LineTotal() float64 {
	return oi.UnitPrice * float64(oi.Quantity)
}
