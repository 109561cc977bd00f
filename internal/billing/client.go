// Package billing provides a thin client for the hosted payments API:
// checkout session creation and subscription status. Payment protocol
// details stay on the provider's side.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://billing.planfact.app/api"
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	keyPrefix      = "pf_sk_"
)

var (
	// ErrUnauthorized indicates the API key is expired or invalid.
	ErrUnauthorized = errors.New("billing: unauthorized (API key expired or invalid)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("billing: rate limited")
)

// Client talks to the hosted billing API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given API key. Returns nil if the
// key is empty or has the wrong prefix.
func NewClient(apiKey, baseURL string) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" || !strings.HasPrefix(apiKey, keyPrefix) {
		return nil
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// CreateCheckoutSession asks the provider for a hosted checkout page
// for the given subscription plan.
func (c *Client) CreateCheckoutSession(ctx context.Context, plan string) (*CheckoutSession, error) {
	payload, err := json.Marshal(map[string]string{"plan": plan})
	if err != nil {
		return nil, fmt.Errorf("billing: encoding request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", payload)
	if err != nil {
		return nil, err
	}

	var raw CheckoutSessionResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("billing: parsing checkout session: %w", err)
	}
	if raw.URL == "" {
		return nil, errors.New("billing: checkout session has no URL")
	}
	return parseCheckoutSession(raw), nil
}

// FetchSubscription returns the current subscription state.
func (c *Client) FetchSubscription(ctx context.Context) (*Subscription, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/subscription", nil)
	if err != nil {
		return nil, err
	}

	var raw SubscriptionResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("billing: parsing subscription: %w", err)
	}

	return parseSubscription(raw), nil
}

// do performs an authenticated request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("billing: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("billing: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("billing: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("billing: reading response: %w", err)
	}
	return body, nil
}

// parseCheckoutSession normalizes a raw checkout session response.
func parseCheckoutSession(raw CheckoutSessionResponse) *CheckoutSession {
	session := &CheckoutSession{
		ID:   raw.ID,
		URL:  raw.URL,
		Plan: raw.Plan,
	}
	if t, err := time.Parse(time.RFC3339, raw.ExpiresAt); err == nil {
		session.ExpiresAt = t
	}
	return session
}

// parseSubscription normalizes a raw subscription response.
func parseSubscription(raw SubscriptionResponse) *Subscription {
	sub := &Subscription{
		Plan:       raw.Plan,
		Status:     raw.Status,
		Seats:      raw.Seats,
		PriceMonth: parsePrice(raw.PriceMonth),
	}
	if raw.RenewsAt != nil {
		if t, err := time.Parse(time.RFC3339, *raw.RenewsAt); err == nil {
			sub.RenewsAt = t
		}
	}
	return sub
}

// parsePrice defensively parses the polymorphic price field. Handles
// numbers (29.0) and strings ("29.00" or "$29.00"). Unparseable
// values read as zero.
func parsePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimPrefix(strings.TrimSpace(s), "$")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}

	return 0
}
