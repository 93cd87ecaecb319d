package repositories

import (
	"sweetshop/internal/models"

	"github.com/shopspring/decimal"
)

// OrderStats are the order counters shown on the back-office dashboard.
type OrderStats struct {
	TotalOrders   int64           `json:"total_orders"`
	PendingOrders int64           `json:"pending_orders"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Place stores order and its items, consumes one use of couponID (when not
	// empty) and empties the user's cart, all in one transaction.
	Place(order *models.Order, couponID string) error
	GetByID(id string) (*models.Order, error)
	GetByGatewayOrderID(gatewayOrderID string) (*models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	List(filter models.OrderFilter) ([]models.Order, int64, error)
	// UpdateStatus moves the order from one status to another; it fails with
	// ErrNotFound when the order is not currently in from.
	UpdateStatus(id, from, to string) error
	// Cancel moves the order from status from to cancelled and gives back the
	// use of couponCode (when not empty) taken by Place, in one transaction.
	Cancel(id, from, couponCode string) error
	SetGatewayOrder(id, gateway, gatewayOrderID string) error
	SetPaymentStatus(id, status, paymentID string) error
	Stats() (*OrderStats, error)
}

// WebhookEventRepository records processed gateway webhook deliveries.
type WebhookEventRepository interface {
	// Process records eventID and runs apply with an order repository bound to
	// the same transaction. When eventID was already recorded it reports false
	// and apply is not called.
	Process(eventID, eventType string, apply func(orders OrderRepository) error) (bool, error)
}
