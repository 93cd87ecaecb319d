package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Razorpay talks to the Razorpay Orders API and checks its HMAC signatures.
type Razorpay struct {
	httpClient    *http.Client
	baseURL       string
	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpay(creds Credentials) *Razorpay {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &Razorpay{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		baseURL:       baseURL,
		keyID:         creds.KeyID,
		keySecret:     creds.KeySecret,
		webhookSecret: creds.WebhookSecret,
	}
}

func (r *Razorpay) Provider() string { return ProviderRazorpay }

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (r *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   MinorUnits(req.Amount),
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	httpReq.SetBasicAuth(r.keyID, r.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("razorpay error %d: %s", resp.StatusCode, string(b))
	}

	var result razorpayOrder
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode razorpay response: %w", err)
	}

	return &GatewayOrder{
		Provider: ProviderRazorpay,
		ID:       result.ID,
		Amount:   result.Amount,
		Currency: result.Currency,
		KeyID:    r.keyID,
	}, nil
}

// Verify checks the checkout signature, HMAC-SHA256(order_id|payment_id) keyed
// with the key secret.
func (r *Razorpay) Verify(_ context.Context, v Verification) (string, error) {
	if v.GatewayOrderID == "" || v.PaymentID == "" || v.Signature == "" {
		return "", fmt.Errorf("%w: missing payment identifiers", ErrVerificationFailed)
	}
	if !validSignature(r.keySecret, []byte(v.GatewayOrderID+"|"+v.PaymentID), v.Signature) {
		return "", fmt.Errorf("%w: signature mismatch", ErrVerificationFailed)
	}
	return v.PaymentID, nil
}

// VerifyWebhook checks the X-Razorpay-Signature of a webhook body.
func (r *Razorpay) VerifyWebhook(body []byte, signature string) error {
	if r.webhookSecret == "" {
		return fmt.Errorf("%w: webhook secret not configured", ErrVerificationFailed)
	}
	if !validSignature(r.webhookSecret, body, signature) {
		return fmt.Errorf("%w: webhook signature mismatch", ErrVerificationFailed)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(secret string, payload []byte, signature string) bool {
	expected := Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
