// Package payment calls the third-party payment provider to create
// checkout sessions. The provider is a black box: one outbound POST
// returning a session id and a redirect URL.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is the provider's checkout session: an id and the URL the client
// is redirected to.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client talks to the payment provider's checkout-session endpoint.
type Client struct {
	apiURL    string
	secretKey string
	http      *http.Client
}

// NewClient constructs a Client for the given endpoint and secret key.
func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		apiURL:    apiURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateCheckoutSession creates a one-off payment session, sending the
// client back to successURL or cancelURL. Each call carries a fresh
// idempotency key so a retried request cannot double-create a session.
func (c *Client) CreateCheckoutSession(ctx context.Context, successURL, cancelURL string) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("payment provider returned an incomplete session")
	}
	return &session, nil
}
