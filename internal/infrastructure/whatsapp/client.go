// Package whatsapp provides the Interakt-backed WhatsApp notifier used for
// invoice and return receipts.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"garmentpos/internal/domain/notify"
	"garmentpos/pkg/logger"
)

const defaultBaseURL = "https://api.interakt.ai/v1"

// Config for the Interakt API client.
type Config struct {
	APIKey  string
	BaseURL string

	// Timeout bounds a single send. Interakt recommends 30s.
	Timeout time.Duration
}

// Client sends WhatsApp messages through the Interakt API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Interakt client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

var _ notify.Notifier = (*Client)(nil)

type sendRequest struct {
	PhoneNumber string `json:"phone_number"`
	Message     string `json:"message"`
	Channel     string `json:"channel"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
}

// SendText sends a plain text message to an Indian phone number.
func (c *Client) SendText(ctx context.Context, phone, message string) (notify.Result, error) {
	body, err := json.Marshal(sendRequest{
		PhoneNumber: NormalizePhone(phone),
		Message:     message,
		Channel:     "whatsapp",
	})
	if err != nil {
		return notify.Result{Status: notify.StatusFailed, Error: err.Error()}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return notify.Result{Status: notify.StatusFailed, Error: err.Error()}, err
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return notify.Result{Status: notify.StatusFailed, Error: err.Error()},
			fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Warn(ctx, "whatsapp send failed",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		apiErr := fmt.Errorf("interakt api: status %d", resp.StatusCode)
		return notify.Result{Status: notify.StatusFailed, Error: apiErr.Error()}, apiErr
	}

	var parsed sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return notify.Result{Status: notify.StatusFailed, Error: err.Error()},
			fmt.Errorf("decode interakt response: %w", err)
	}

	return notify.Result{Status: notify.StatusSent, MessageID: parsed.MessageID}, nil
}

// NormalizePhone prefixes the Indian country code when missing. Customer
// phones are stored as 10-digit local numbers.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+91") {
		return phone
	}
	return "+91" + phone
}
