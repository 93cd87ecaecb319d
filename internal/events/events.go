// Package events defines the order lifecycle events published to the broker.
package events

import (
	"encoding/json"
	"log"
	"time"

	"sweetshop/internal/models"

	"github.com/shopspring/decimal"
)

// Routing keys.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	PaymentPaid        = "payment.paid"
	PaymentFailed      = "payment.failed"
	PaymentRefundDue   = "payment.refund_due"
)

// Publisher sends a message body under a routing key.
type Publisher interface {
	Publish(routingKey string, body []byte) error
}

// Event is the JSON payload of every order lifecycle message.
type Event struct {
	Type          string          `json:"type"`
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	Phone         string          `json:"phone,omitempty"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Total         decimal.Decimal `json:"total"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// FromOrder builds an event of type typ describing order.
func FromOrder(typ string, order *models.Order) Event {
	return Event{
		Type:          typ,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Phone:         order.Address.Phone,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total,
		OccurredAt:    time.Now().UTC(),
	}
}

// Emit publishes ev through p. Failures are logged and never returned: the
// order change they describe has already been committed.
func Emit(p Publisher, ev Event) {
	if p == nil {
		log.Printf("Event publisher not configured, skipping %s for order %s", ev.Type, ev.OrderID)
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", ev.Type, err)
		return
	}
	if err := p.Publish(ev.Type, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", ev.Type, ev.OrderID, err)
	}
}
