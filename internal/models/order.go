package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order fulfillment statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses, tracked apart from fulfillment.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
	// Captured after the order was cancelled; the money is owed back.
	PaymentStatusRefundDue = "refund_due"
)

// Payment methods.
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     string          `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36);index"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"` // Price at the time of order
}

// AddressSnapshot is the shipping address copied onto an order when it is placed.
type AddressSnapshot struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Order represents a customer order.
type Order struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string          `json:"user_id" gorm:"type:varchar(36);index"`
	Items          []OrderItem     `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	Address        AddressSnapshot `json:"address" gorm:"embedded;embeddedPrefix:ship_"`
	CouponCode     string          `json:"coupon_code,omitempty" gorm:"type:varchar(50)"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2)"`
	Discount       decimal.Decimal `json:"discount" gorm:"type:decimal(10,2)"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge" gorm:"type:decimal(10,2)"`
	Total          decimal.Decimal `json:"total" gorm:"type:decimal(10,2)"`
	Status         string          `json:"status" gorm:"type:varchar(20);index"`
	PaymentMethod  string          `json:"payment_method" gorm:"type:varchar(20)"`
	PaymentStatus  string          `json:"payment_status" gorm:"type:varchar(20);index"`
	PaymentGateway string          `json:"payment_gateway,omitempty" gorm:"type:varchar(20)"`
	GatewayOrderID string          `json:"gateway_order_id,omitempty" gorm:"type:varchar(100);index"`
	PaymentID      string          `json:"payment_id,omitempty" gorm:"type:varchar(100)"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OrderFilter narrows an admin order listing.
type OrderFilter struct {
	Status        string
	PaymentStatus string
	UserID        string
	Page          int
	Limit         int
}

// WebhookEvent records a processed payment gateway webhook so redeliveries are ignored.
type WebhookEvent struct {
	EventID     string    `gorm:"primaryKey;type:varchar(128)"`
	EventType   string    `gorm:"type:varchar(64);index"`
	ProcessedAt time.Time
}
