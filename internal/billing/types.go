package billing

import (
	"encoding/json"
	"time"
)

// CheckoutSessionResponse is the raw API response for a checkout
// session. ExpiresAt arrives as an RFC 3339 string.
type CheckoutSessionResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Plan      string `json:"plan"`
	ExpiresAt string `json:"expires_at"`
}

// CheckoutSession is the parsed checkout session. The caller opens URL
// in a browser; everything after that is the payment provider's
// problem. ExpiresAt is zero when the API omitted it or sent garbage.
type CheckoutSession struct {
	ID        string
	URL       string
	Plan      string
	ExpiresAt time.Time
}

// SubscriptionResponse is the raw API response for the current
// subscription. Price can arrive as a number or a string — kept as raw
// JSON for defensive parsing.
type SubscriptionResponse struct {
	Plan       string          `json:"plan"`
	Status     string          `json:"status"`
	Seats      int             `json:"seats"`
	PriceMonth json.RawMessage `json:"price_month"`
	RenewsAt   *string         `json:"renews_at"`
}

// Subscription is the parsed, display-ready subscription state.
type Subscription struct {
	Plan       string
	Status     string
	Seats      int
	PriceMonth float64
	RenewsAt   time.Time
}
