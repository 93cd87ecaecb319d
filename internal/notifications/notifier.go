// Package notifications turns order lifecycle events into customer SMS messages.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"sweetshop/internal/events"
	"sweetshop/internal/models"
	"sweetshop/pkg/sms"

	"github.com/streadway/amqp"
)

// Notifier sends an SMS for each order event that concerns the customer.
type Notifier struct {
	sender    sms.Sender
	storeName string
	timeout   time.Duration
}

// NewNotifier creates a Notifier signing messages with storeName.
func NewNotifier(sender sms.Sender, storeName string) *Notifier {
	return &Notifier{sender: sender, storeName: storeName, timeout: 10 * time.Second}
}

// Message renders the text sent for ev, or "" when the event needs no SMS.
func (n *Notifier) Message(ev events.Event) string {
	short := ev.OrderID
	if len(short) > 8 {
		short = short[:8]
	}
	switch ev.Type {
	case events.OrderCreated:
		return fmt.Sprintf("%s: order %s received, total Rs %s. We will confirm it shortly.", n.storeName, short, ev.Total.StringFixed(2))
	case events.OrderStatusChanged:
		switch ev.Status {
		case models.OrderStatusConfirmed:
			return fmt.Sprintf("%s: order %s is confirmed.", n.storeName, short)
		case models.OrderStatusShipped:
			return fmt.Sprintf("%s: order %s has been shipped.", n.storeName, short)
		case models.OrderStatusDelivered:
			return fmt.Sprintf("%s: order %s was delivered. Enjoy your sweets!", n.storeName, short)
		case models.OrderStatusCancelled:
			return fmt.Sprintf("%s: order %s has been cancelled.", n.storeName, short)
		}
	case events.PaymentPaid:
		return fmt.Sprintf("%s: payment of Rs %s received for order %s.", n.storeName, ev.Total.StringFixed(2), short)
	case events.PaymentFailed:
		return fmt.Sprintf("%s: payment for order %s failed. You can retry or choose cash on delivery.", n.storeName, short)
	case events.PaymentRefundDue:
		return fmt.Sprintf("%s: order %s was cancelled, your payment of Rs %s will be refunded.", n.storeName, short, ev.Total.StringFixed(2))
	}
	return ""
}

// Handle decodes one event body and sends its SMS. Malformed bodies and events
// without a phone number are dropped.
func (n *Notifier) Handle(ctx context.Context, body []byte) error {
	var ev events.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Printf("Dropping malformed order event: %v", err)
		return nil
	}
	msg := n.Message(ev)
	if msg == "" {
		return nil
	}
	if ev.Phone == "" {
		log.Printf("No phone number for order %s, skipping %s notification", ev.OrderID, ev.Type)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.sender.Send(ctx, ev.Phone, msg); err != nil {
		return fmt.Errorf("failed to send %s sms for order %s: %w", ev.Type, ev.OrderID, err)
	}
	log.Printf("Sent %s sms for order %s", ev.Type, ev.OrderID)
	return nil
}

// Delivery adapts Handle to a broker consumer callback.
func (n *Notifier) Delivery(ctx context.Context) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		return n.Handle(ctx, msg.Body)
	}
}
