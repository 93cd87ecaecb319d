package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"sweetshop/internal/events"
	"sweetshop/internal/models"
	"sweetshop/internal/pricing"
	"sweetshop/internal/repositories"
	"sweetshop/pkg/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService handles checkout and the order lifecycle.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	cartRepo     repositories.CartRepository
	addresses    *AddressService
	coupons      *CouponService
	payments     *PaymentService
	settingsRepo repositories.SettingsRepository
	rules        pricing.Rules
	publisher    events.Publisher
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case order events are only logged.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	addresses *AddressService,
	coupons *CouponService,
	payments *PaymentService,
	settingsRepo repositories.SettingsRepository,
	rules pricing.Rules,
	publisher events.Publisher,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		addresses:    addresses,
		coupons:      coupons,
		payments:     payments,
		settingsRepo: settingsRepo,
		rules:        rules,
		publisher:    publisher,
	}
}

// Quote is the priced view of a cart before an order is placed.
type Quote struct {
	Items      []models.CartItem `json:"items"`
	CouponCode string            `json:"coupon_code,omitempty"`
	pricing.Totals
}

// PlaceOrderRequest carries the checkout choices of the customer.
type PlaceOrderRequest struct {
	AddressID     string `json:"address_id"`
	CouponCode    string `json:"coupon_code"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cod online"`
}

// Checkout is the result of placing an order. Payment is set for online orders
// and carries what the storefront needs to open the gateway widget.
type Checkout struct {
	Order   *models.Order         `json:"order"`
	Payment *payment.GatewayOrder `json:"payment,omitempty"`
}

// Quote prices the user's cart with an optional coupon.
func (s *OrderService) Quote(userID, couponCode string) (*Quote, error) {
	items, err := s.cartItems(userID)
	if err != nil {
		return nil, err
	}
	quote, _, err := s.price(items, couponCode)
	return quote, err
}

func (s *OrderService) cartItems(userID string) ([]models.CartItem, error) {
	items, err := s.cartRepo.GetItems(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range items {
		if !item.Product.InStock {
			return nil, fmt.Errorf("%s: %w", item.Product.Name, ErrProductUnavailable)
		}
	}
	return items, nil
}

// price returns the quote and the id of the applied coupon, if any.
func (s *OrderService) price(items []models.CartItem, couponCode string) (*Quote, string, error) {
	subtotal := pricing.Subtotal(items)
	quote := &Quote{Items: items}
	var couponID string
	discount := decimal.Zero
	if code := pricing.NormalizeCode(couponCode); code != "" {
		coupon, d, err := s.coupons.Validate(code, subtotal)
		if err != nil {
			return nil, "", err
		}
		couponID = coupon.ID
		quote.CouponCode = coupon.Code
		discount = d
	}
	quote.Totals = s.rules.Compute(subtotal, discount)
	return quote, couponID, nil
}

// PlaceOrder turns the user's cart into an order. For online payment the
// gateway order is created first, so a gateway failure leaves the cart intact.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*Checkout, error) {
	items, err := s.cartItems(userID)
	if err != nil {
		return nil, err
	}

	address, err := s.addresses.Resolve(userID, req.AddressID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAddressRequired
		}
		return nil, err
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	switch req.PaymentMethod {
	case models.PaymentMethodCOD:
		if !settings.CODEnabled {
			return nil, fmt.Errorf("cash on delivery: %w", ErrPaymentMethodDisabled)
		}
	case models.PaymentMethodOnline:
		if !settings.OnlinePaymentEnabled {
			return nil, fmt.Errorf("online payment: %w", ErrPaymentMethodDisabled)
		}
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.PaymentMethod)
	}

	quote, couponID, err := s.price(items, req.CouponCode)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             uuid.New().String(),
		UserID:         userID,
		Address:        address.Snapshot(),
		CouponCode:     quote.CouponCode,
		Subtotal:       quote.Subtotal,
		Discount:       quote.Discount,
		DeliveryCharge: quote.DeliveryCharge,
		Total:          quote.Total,
		Status:         models.OrderStatusPending,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  models.PaymentStatusPending,
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			Price:       item.Product.Price,
		})
	}

	checkout := &Checkout{Order: order}
	if req.PaymentMethod == models.PaymentMethodOnline {
		gwOrder, err := s.payments.CreateGatewayOrder(ctx, order.ID, order.Total)
		if err != nil {
			return nil, err
		}
		order.PaymentGateway = gwOrder.Provider
		order.GatewayOrderID = gwOrder.ID
		checkout.Payment = gwOrder
	}

	if err := s.orderRepo.Place(order, couponID); err != nil {
		return nil, err
	}
	log.Printf("Order %s placed by user %s (%s, total %s)", order.ID, userID, order.PaymentMethod, order.Total)

	events.Emit(s.publisher, events.FromOrder(events.OrderCreated, order))
	return checkout, nil
}

// ListUserOrders returns the user's orders, newest first.
func (s *OrderService) ListUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// GetUserOrder returns one of the user's orders. Orders of other users are
// reported as not found.
func (s *OrderService) GetUserOrder(userID, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %s %w", id, repositories.ErrNotFound)
	}
	return order, nil
}

// CancelOrder lets a customer cancel their own order while it has not shipped.
func (s *OrderService) CancelOrder(userID, id string) (*models.Order, error) {
	order, err := s.GetUserOrder(userID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(order, models.OrderStatusCancelled)
}

// ListOrders returns a filtered page of all orders for the back-office.
func (s *OrderService) ListOrders(filter models.OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" && !ValidOrderStatus(filter.Status) {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}
	return s.orderRepo.List(filter)
}

func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateOrderStatus moves an order to status. Delivering a cash on delivery
// order also marks it paid.
func (s *OrderService) UpdateOrderStatus(id, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.transition(order, status)
}

func (s *OrderService) transition(order *models.Order, status string) (*models.Order, error) {
	if err := CheckTransition(order.Status, status); err != nil {
		return nil, err
	}
	var err error
	if status == models.OrderStatusCancelled {
		err = s.orderRepo.Cancel(order.ID, order.Status, order.CouponCode)
	} else {
		err = s.orderRepo.UpdateStatus(order.ID, order.Status, status)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s was modified concurrently", ErrConflict, order.ID)
		}
		return nil, fmt.Errorf("failed to update order status for order %s: %w", order.ID, err)
	}
	log.Printf("Order %s moved from %s to %s", order.ID, order.Status, status)
	order.Status = status

	if status == models.OrderStatusDelivered &&
		order.PaymentMethod == models.PaymentMethodCOD &&
		order.PaymentStatus != models.PaymentStatusPaid {
		if err := s.orderRepo.SetPaymentStatus(order.ID, models.PaymentStatusPaid, ""); err != nil {
			return nil, err
		}
		order.PaymentStatus = models.PaymentStatusPaid
	}

	events.Emit(s.publisher, events.FromOrder(events.OrderStatusChanged, order))
	return order, nil
}
