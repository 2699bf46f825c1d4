// Package razorpay is a minimal client for the order half of the Razorpay checkout handshake.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.razorpay.com"

type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Order struct {
	Id       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// APIError is a non-2xx gateway answer.
type APIError struct {
	StatusCode  int
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("razorpay: status %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("razorpay: status %d", e.StatusCode)
}

type Client struct {
	keyId     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func NewClient(keyId, keySecret, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		keyId:     keyId,
		keySecret: keySecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) KeyId() string {
	return c.keyId
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c.keyId != "" && c.keySecret != ""
}

func (c *Client) CreateOrder(ctx context.Context, in OrderRequest) (*Order, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.keyId, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var wrapped struct {
			Error *APIError `json:"error"`
		}
		if json.Unmarshal(body, &wrapped) == nil && wrapped.Error != nil {
			apiErr.Code = wrapped.Error.Code
			apiErr.Description = wrapped.Error.Description
		}
		return nil, apiErr
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	if order.Id == "" {
		return nil, fmt.Errorf("razorpay: order id missing from response")
	}
	return &order, nil
}
