package services

import (
	"fmt"

	"sweetshop/internal/models"
)

// statusRank orders the forward fulfillment chain.
var statusRank = map[string]int{
	models.OrderStatusPending:    0,
	models.OrderStatusConfirmed:  1,
	models.OrderStatusProcessing: 2,
	models.OrderStatusShipped:    3,
	models.OrderStatusDelivered:  4,
}

// ValidOrderStatus reports whether s is one of the six order status labels.
func ValidOrderStatus(s string) bool {
	_, ok := statusRank[s]
	return ok || s == models.OrderStatusCancelled
}

// Cancellable reports whether an order in status s may still be cancelled.
func Cancellable(s string) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusProcessing:
		return true
	}
	return false
}

// CheckTransition validates moving an order from one status to another. Orders
// only move forward along pending, confirmed, processing, shipped, delivered
// (steps may be skipped); delivered and cancelled are terminal.
func CheckTransition(from, to string) error {
	if !ValidOrderStatus(to) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if to == models.OrderStatusCancelled {
		if !Cancellable(from) {
			return fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, from)
		}
		return nil
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return fmt.Errorf("%w: order is %s", ErrInvalidTransition, from)
	}
	if statusRank[to] <= fromRank {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}
	return nil
}
