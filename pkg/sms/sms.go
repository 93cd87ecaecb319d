// Package sms is a client for the SMS gateway's REST API.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender sends a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, message string) error
}

// Config holds SMS gateway credentials.
type Config struct {
	BaseURL  string
	APIKey   string
	SenderID string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
	}
}

type sendRequest struct {
	Sender  string `json:"sender"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send posts the message to the gateway; any non-2xx answer is an error.
func (c *Client) Send(ctx context.Context, to, message string) error {
	if to == "" {
		return fmt.Errorf("sms: empty recipient")
	}

	body, err := json.Marshal(sendRequest{Sender: c.cfg.SenderID, To: to, Message: message})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create sms request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms gateway error %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
