// Package payment wraps the external payment gateways: creating a gateway order
// for checkout and verifying the payment the customer completed in the widget.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Providers.
const (
	ProviderRazorpay  = "razorpay"
	ProviderBraintree = "braintree"
)

// ErrVerificationFailed means the gateway rejected the payment or its signature.
var ErrVerificationFailed = errors.New("payment verification failed")

// Gateway is an external payment provider.
type Gateway interface {
	Provider() string
	// CreateOrder registers amount with the gateway so the checkout widget can collect it.
	CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error)
	// Verify confirms a completed payment and returns the gateway payment id.
	Verify(ctx context.Context, v Verification) (string, error)
}

// OrderRequest describes the amount to collect for one store order.
type OrderRequest struct {
	Amount   decimal.Decimal
	Currency string
	Receipt  string // store order id
}

// GatewayOrder is what the storefront needs to open the checkout widget.
type GatewayOrder struct {
	Provider    string `json:"provider"`
	ID          string `json:"gateway_order_id"`
	Amount      int64  `json:"amount"` // minor units
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id,omitempty"`
	ClientToken string `json:"client_token,omitempty"`
}

// Verification is the data the widget hands back after payment.
type Verification struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	Nonce          string
	Amount         decimal.Decimal
}

// Credentials select and authenticate a gateway.
type Credentials struct {
	Provider      string
	BaseURL       string
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Environment   string
	MerchantID    string
}

// New builds the gateway for creds.
func New(creds Credentials) (Gateway, error) {
	switch creds.Provider {
	case ProviderRazorpay:
		if creds.KeyID == "" || creds.KeySecret == "" {
			return nil, fmt.Errorf("razorpay credentials are not configured")
		}
		return NewRazorpay(creds), nil
	case ProviderBraintree:
		if creds.MerchantID == "" || creds.KeyID == "" || creds.KeySecret == "" {
			return nil, fmt.Errorf("braintree credentials are not configured")
		}
		return NewBraintree(creds), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", creds.Provider)
	}
}

// MinorUnits converts an amount to paise/cents.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
}
