package domain

import "time"

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses carried on an order. Webhook-driven session changes map
// onto these.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// OrderItem is a line captured at submission time. UnitPrice is the price
// that applied when the order was placed, not a live lookup.
type OrderItem struct {
	ProductRef string  `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	UnitType   string  `json:"unit_type,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// Order is a submitted order.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderPatch carries the partial-update fields of the order endpoint. Nil
// fields are left untouched.
type OrderPatch struct {
	Status        *string      `json:"status,omitempty"`
	PaymentStatus *string      `json:"paymentStatus,omitempty"`
	Items         *[]OrderItem `json:"items,omitempty"`
}
