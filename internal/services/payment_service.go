package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"sweetshop/internal/config"
	"sweetshop/internal/events"
	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
	"sweetshop/pkg/payment"

	"github.com/shopspring/decimal"
)

// GatewayFactory builds a payment gateway from resolved credentials.
type GatewayFactory func(creds payment.Credentials) (payment.Gateway, error)

// PaymentService connects orders to the configured payment gateway.
type PaymentService struct {
	orderRepo    repositories.OrderRepository
	webhookRepo  repositories.WebhookEventRepository
	settingsRepo repositories.SettingsRepository
	fallback     config.Payment
	currency     string
	newGateway   GatewayFactory
	publisher    events.Publisher
}

// NewPaymentService creates a new PaymentService. Gateway credentials are read
// from the site settings on every call and fall back to cfg when left empty.
func NewPaymentService(
	orderRepo repositories.OrderRepository,
	webhookRepo repositories.WebhookEventRepository,
	settingsRepo repositories.SettingsRepository,
	cfg config.Payment,
	currency string,
	publisher events.Publisher,
) *PaymentService {
	return &PaymentService{
		orderRepo:    orderRepo,
		webhookRepo:  webhookRepo,
		settingsRepo: settingsRepo,
		fallback:     cfg,
		currency:     currency,
		newGateway:   payment.New,
		publisher:    publisher,
	}
}

// SetGatewayFactory replaces how gateways are built.
func (s *PaymentService) SetGatewayFactory(f GatewayFactory) {
	s.newGateway = f
}

// Credentials merges the back-office settings over the configured defaults.
func (s *PaymentService) Credentials(settings *models.SiteSettings) payment.Credentials {
	provider := firstNonEmpty(settings.PaymentProvider, s.fallback.Provider)
	creds := payment.Credentials{Provider: provider}
	switch provider {
	case payment.ProviderBraintree:
		creds.Environment = s.fallback.BraintreeEnvironment
		creds.MerchantID = s.fallback.BraintreeMerchantID
		creds.KeyID = firstNonEmpty(settings.PaymentKeyID, s.fallback.BraintreePublicKey)
		creds.KeySecret = firstNonEmpty(settings.PaymentKeySecret, s.fallback.BraintreePrivateKey)
	default:
		creds.BaseURL = s.fallback.RazorpayBaseURL
		creds.KeyID = firstNonEmpty(settings.PaymentKeyID, s.fallback.RazorpayKeyID)
		creds.KeySecret = firstNonEmpty(settings.PaymentKeySecret, s.fallback.RazorpayKeySecret)
		creds.WebhookSecret = firstNonEmpty(settings.PaymentWebhookSecret, s.fallback.RazorpayWebhookSecret)
	}
	return creds
}

func (s *PaymentService) gateway() (payment.Gateway, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	if !settings.OnlinePaymentEnabled {
		return nil, ErrPaymentMethodDisabled
	}
	gw, err := s.newGateway(s.Credentials(settings))
	if err != nil {
		log.Printf("Payment gateway not usable: %v", err)
		return nil, ErrPaymentGatewayUnavailable
	}
	return gw, nil
}

// CreateGatewayOrder registers amount for store order orderID with the gateway.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, orderID string, amount decimal.Decimal) (*payment.GatewayOrder, error) {
	gw, err := s.gateway()
	if err != nil {
		return nil, err
	}
	gwOrder, err := gw.CreateOrder(ctx, payment.OrderRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  orderID,
	})
	if err != nil {
		log.Printf("Gateway order creation failed for order %s: %v", orderID, err)
		return nil, ErrPaymentGatewayUnavailable
	}
	return gwOrder, nil
}

// VerifyRequest is what the checkout widget posts back after payment.
type VerifyRequest struct {
	GatewayOrderID string `json:"gateway_order_id" validate:"required"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
	Nonce          string `json:"nonce"`
}

// Verify confirms the payment of one of userID's orders and records the result.
// An order that is already paid is returned unchanged. A payment completed for
// a cancelled order is recorded as due for refund and the call fails with
// ErrInvalidTransition.
func (s *PaymentService) Verify(ctx context.Context, userID string, req VerifyRequest) (*models.Order, error) {
	order, err := s.orderRepo.GetByGatewayOrderID(req.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %w", repositories.ErrNotFound)
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, nil
	}
	cancelled := order.Status == models.OrderStatusCancelled
	if cancelled && order.PaymentStatus == models.PaymentStatusRefundDue {
		return nil, errOrderCancelled(order.ID)
	}

	gw, err := s.gateway()
	if err != nil {
		return nil, err
	}
	paymentID, err := gw.Verify(ctx, payment.Verification{
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
		Nonce:          req.Nonce,
		Amount:         order.Total,
	})
	if err != nil {
		if !errors.Is(err, payment.ErrVerificationFailed) {
			log.Printf("Payment verification error for order %s: %v", order.ID, err)
			return nil, ErrPaymentGatewayUnavailable
		}
		log.Printf("Payment verification failed for order %s: %v", order.ID, err)
		if cancelled {
			return nil, errOrderCancelled(order.ID)
		}
		if err := recordPayment(s.orderRepo, order, models.PaymentStatusFailed, req.PaymentID); err != nil {
			return nil, err
		}
		s.emitPayment(order)
		return order, ErrPaymentFailed
	}

	status := paymentOutcome(order, models.PaymentStatusPaid)
	if err := recordPayment(s.orderRepo, order, status, paymentID); err != nil {
		return nil, err
	}
	s.emitPayment(order)
	if cancelled {
		return nil, errOrderCancelled(order.ID)
	}
	return order, nil
}

func errOrderCancelled(orderID string) error {
	return fmt.Errorf("%w: order %s was cancelled, any captured payment will be refunded", ErrInvalidTransition, orderID)
}

// paymentOutcome returns the payment status order moves to when the gateway
// reports a payment as reported, or "" when the order stays as it is. Paid orders are never
// downgraded and money captured for a cancelled order is owed back.
func paymentOutcome(order *models.Order, reported string) string {
	switch {
	case order.PaymentStatus == models.PaymentStatusPaid,
		order.PaymentStatus == models.PaymentStatusRefundDue:
		return ""
	case order.Status == models.OrderStatusCancelled:
		if reported == models.PaymentStatusPaid {
			log.Printf("Payment captured for cancelled order %s, refund due", order.ID)
			return models.PaymentStatusRefundDue
		}
		return ""
	}
	return reported
}

func recordPayment(orders repositories.OrderRepository, order *models.Order, status, paymentID string) error {
	if err := orders.SetPaymentStatus(order.ID, status, paymentID); err != nil {
		return fmt.Errorf("failed to record payment for order %s: %w", order.ID, err)
	}
	order.PaymentStatus = status
	if paymentID != "" {
		order.PaymentID = paymentID
	}
	return nil
}

func (s *PaymentService) emitPayment(order *models.Order) {
	typ := events.PaymentPaid
	switch order.PaymentStatus {
	case models.PaymentStatusFailed:
		typ = events.PaymentFailed
	case models.PaymentStatusRefundDue:
		typ = events.PaymentRefundDue
	}
	events.Emit(s.publisher, events.FromOrder(typ, order))
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook applies a signed gateway webhook. Events already processed and
// event types other than payment.captured and payment.failed are acknowledged
// without effect. The event is recorded in the same transaction as the order
// change, so concurrent redeliveries apply it once.
func (s *PaymentService) HandleWebhook(eventID string, body []byte, signature string) error {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return err
	}
	creds := s.Credentials(settings)
	if err := payment.NewRazorpay(creds).VerifyWebhook(body, signature); err != nil {
		return err
	}

	var hook webhookPayload
	if err := json.Unmarshal(body, &hook); err != nil {
		return fmt.Errorf("%w: malformed webhook body", ErrInvalidInput)
	}
	entity := hook.Payload.Payment.Entity
	if eventID == "" {
		eventID = hook.Event + ":" + entity.ID
	}

	var reported string
	switch hook.Event {
	case "payment.captured":
		reported = models.PaymentStatusPaid
	case "payment.failed":
		reported = models.PaymentStatusFailed
	}

	var changed *models.Order
	processed, err := s.webhookRepo.Process(eventID, hook.Event, func(orders repositories.OrderRepository) error {
		if reported == "" || entity.OrderID == "" {
			return nil
		}
		order, err := orders.GetByGatewayOrderID(entity.OrderID)
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Webhook %s references unknown gateway order %s", eventID, entity.OrderID)
			return nil
		}
		if err != nil {
			return err
		}
		status := paymentOutcome(order, reported)
		if status == "" {
			return nil
		}
		if err := recordPayment(orders, order, status, entity.ID); err != nil {
			return err
		}
		changed = order
		return nil
	})
	if err != nil {
		return err
	}
	if !processed {
		log.Printf("Webhook %s already processed", eventID)
		return nil
	}
	if changed != nil {
		s.emitPayment(changed)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
