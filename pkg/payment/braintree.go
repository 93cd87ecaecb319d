package payment

import (
	"context"
	"fmt"

	"github.com/braintree-go/braintree-go"
)

// Braintree uses the Braintree SDK: a client token opens the drop-in widget and
// the nonce it returns is charged on verification.
type Braintree struct {
	gateway *braintree.Braintree
}

func NewBraintree(creds Credentials) *Braintree {
	env := braintree.Sandbox
	if creds.Environment == "production" {
		env = braintree.Production
	}
	return &Braintree{
		gateway: braintree.New(env, creds.MerchantID, creds.KeyID, creds.KeySecret),
	}
}

func (b *Braintree) Provider() string { return ProviderBraintree }

func (b *Braintree) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	token, err := b.gateway.ClientToken().Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("braintree client token: %w", err)
	}
	return &GatewayOrder{
		Provider:    ProviderBraintree,
		ID:          req.Receipt,
		Amount:      MinorUnits(req.Amount),
		Currency:    req.Currency,
		ClientToken: token,
	}, nil
}

func (b *Braintree) Verify(ctx context.Context, v Verification) (string, error) {
	if v.Nonce == "" {
		return "", fmt.Errorf("%w: missing payment nonce", ErrVerificationFailed)
	}

	tx, err := b.gateway.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(MinorUnits(v.Amount), 2),
		PaymentMethodNonce: v.Nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	switch tx.Status {
	case braintree.TransactionStatusProcessorDeclined, braintree.TransactionStatusGatewayRejected:
		return "", fmt.Errorf("%w: %s", ErrVerificationFailed, tx.ProcessorResponseText)
	}
	return tx.Id, nil
}
