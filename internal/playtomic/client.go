// Package playtomic is a minimal client for the Playtomic booking API,
// covering login, availability, match history and the three-step payment
// intent flow used to confirm a reservation.
package playtomic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultAPIBase  = "https://playtomic.io/api/v1"
	defaultAuthBase = "https://playtomic.io/api/v3"

	// The API rejects non-browser clients; send the headers the web app sends.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
	requestedWith = "com.playtomic.web"

	// WireTime is the timezone-naive timestamp layout used across the API.
	WireTime = "2006-01-02T15:04:05"
)

// Client talks to the Playtomic API. It holds the bearer token obtained by
// Login; every other call fails with ErrNotAuthenticated until then. There is
// no implicit re-login: the outer loop decides when to refresh the session.
type Client struct {
	// APIBase and AuthBase may be overridden before first use (tests).
	APIBase  string
	AuthBase string

	hc       *http.Client
	email    string
	password string

	token  string
	userID string
}

func New(email, password string) *Client {
	return &Client{
		APIBase:  defaultAPIBase,
		AuthBase: defaultAuthBase,
		hc:       &http.Client{Timeout: 5 * time.Second},
		email:    email,
		password: password,
	}
}

// UserID returns the account id captured at login, or "" before login.
func (c *Client) UserID() string { return c.userID }

// Login authenticates with the stored credentials and keeps the bearer token
// for subsequent calls. A 401 maps to ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context) (AuthSession, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: c.email, Password: c.password}

	var session AuthSession
	err := c.do(ctx, http.MethodPost, c.AuthBase+"/auth/login", payload, &session)
	if err != nil {
		if ae, ok := AsAPIError(err); ok && ae.StatusCode == http.StatusUnauthorized {
			return AuthSession{}, ErrInvalidCredentials
		}
		return AuthSession{}, err
	}

	c.token = session.AccessToken
	c.userID = session.UserID
	return session, nil
}

// FetchAvailability lists the open slots of a venue between start and end.
// In practice both bounds fall on the same calendar day: the service filters
// per-day internally, so the scan queries one day at a time.
func (c *Client) FetchAvailability(ctx context.Context, venueID string, start, end time.Time) ([]AvailabilityEntry, error) {
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}

	q := url.Values{}
	q.Set("user_id", "me")
	q.Set("tenant_id", venueID)
	q.Set("sport_id", "PADEL")
	q.Set("local_start_min", start.Format(WireTime))
	q.Set("local_start_max", end.Format(WireTime))

	var entries []AvailabilityEntry
	if err := c.do(ctx, http.MethodGet, c.APIBase+"/availability?"+q.Encode(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RecentMatches returns the caller's most recent matches, e.g.
// RecentMatches(ctx, 10, "start_date,desc").
func (c *Client) RecentMatches(ctx context.Context, limit int, sort string) ([]MatchRecord, error) {
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}

	q := url.Values{}
	q.Set("user_id", "me")
	q.Set("size", fmt.Sprintf("%d", limit))
	q.Set("sort", sort)

	var matches []MatchRecord
	if err := c.do(ctx, http.MethodGet, c.APIBase+"/matches?"+q.Encode(), nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// CreatePaymentIntent starts the booking transaction for a slot.
func (c *Client) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (PaymentIntent, error) {
	if c.token == "" {
		return PaymentIntent{}, ErrNotAuthenticated
	}
	var intent PaymentIntent
	err := c.do(ctx, http.MethodPost, c.APIBase+"/payment_intents", req, &intent)
	return intent, err
}

// UpdatePaymentIntent selects the payment method on an intent.
func (c *Client) UpdatePaymentIntent(ctx context.Context, intentID string, upd PaymentIntentUpdate) (PaymentIntent, error) {
	if c.token == "" {
		return PaymentIntent{}, ErrNotAuthenticated
	}
	var intent PaymentIntent
	err := c.do(ctx, http.MethodPatch, c.APIBase+"/payment_intents/"+url.PathEscape(intentID), upd, &intent)
	return intent, err
}

// ConfirmReservation finalizes the intent, turning it into a reservation.
func (c *Client) ConfirmReservation(ctx context.Context, intentID string) (Confirmation, error) {
	if c.token == "" {
		return Confirmation{}, ErrNotAuthenticated
	}
	var conf Confirmation
	err := c.do(ctx, http.MethodPost, c.APIBase+"/payment_intents/"+url.PathEscape(intentID)+"/confirmation", nil, &conf)
	return conf, err
}

// BuildPaymentIntentRequest assembles the creation payload for a court
// reservation. start may be in any zone; it is sent as naive UTC.
func BuildPaymentIntentRequest(userID, venueID, resourceID string, start time.Time, durationMinutes float64) PaymentIntentRequest {
	return PaymentIntentRequest{
		AllowedPaymentMethodTypes: []string{
			"OFFER", "CASH", "MERCHANT_WALLET", "DIRECT", "SWISH",
			"IDEAL", "BANCONTACT", "PAYTRAIL", "CREDIT_CARD", "QUICK_PAY",
		},
		UserID: userID,
		Cart: Cart{
			RequestedItem: CartItem{
				Type: "CUSTOMER_MATCH",
				Data: CartItemData{
					SupportsSplitPayment: true,
					NumberOfPlayers:      4,
					TenantID:             venueID,
					ResourceID:           resourceID,
					Start:                start.UTC().Format(WireTime),
					Duration:             durationMinutes,
					MatchRegistrations: []MatchRegistration{
						{UserID: userID, PayNow: true},
					},
				},
			},
		},
	}
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Requested-With", requestedWith)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("playtomic: %s %s: %w", method, req.URL.Path, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("playtomic: read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &APIError{StatusCode: res.StatusCode, Body: string(b)}
	}
	if out != nil && len(b) > 0 {
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("playtomic: decode response: %w", err)
		}
	}
	return nil
}
