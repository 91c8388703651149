package playtomic

// Wire types for the Playtomic API. All timestamps on the wire are
// timezone-naive strings in the "2006-01-02T15:04:05" (or date-only /
// time-only) form and are interpreted as UTC by the callers.

// AuthSession is the response of the login endpoint.
type AuthSession struct {
	AccessToken            string `json:"access_token"`
	AccessTokenExpiration  string `json:"access_token_expiration"`
	RefreshToken           string `json:"refresh_token"`
	RefreshTokenExpiration string `json:"refresh_token_expiration"`
	UserID                 string `json:"user_id"`
}

// AvailabilityEntry groups the open slots of one resource (court) on one
// calendar date.
type AvailabilityEntry struct {
	ResourceID string `json:"resource_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	Slots      []Slot `json:"slots"`
}

// Slot is one bookable unit as reported by the availability endpoint. The
// start time is a naive clock time on the entry's date; Duration is minutes.
type Slot struct {
	StartTime string  `json:"start_time"` // HH:MM:SS
	Duration  float64 `json:"duration"`
}

// MatchRecord is one entry of the caller's match history.
type MatchRecord struct {
	Status    string `json:"status"`
	StartDate string `json:"start_date"` // 2006-01-02T15:04:05, naive UTC
}

// MatchStatusPending marks a reservation that is booked but not yet played.
const MatchStatusPending = "PENDING"

// PaymentMethod is one way to pay for a payment intent.
type PaymentMethod struct {
	ID   string `json:"payment_method_id"`
	Name string `json:"name"`
}

// PaymentIntent is the transient server-side object a reservation is
// confirmed through.
type PaymentIntent struct {
	ID                      string          `json:"payment_intent_id"`
	AvailablePaymentMethods []PaymentMethod `json:"available_payment_methods"`
}

// Confirmation is the response of the reservation confirmation endpoint.
type Confirmation struct {
	ID     string `json:"payment_intent_id"`
	Status string `json:"status"`
}

// PaymentIntentRequest is the typed payload of the payment intent creation
// call.
type PaymentIntentRequest struct {
	AllowedPaymentMethodTypes []string `json:"allowed_payment_method_types"`
	UserID                    string   `json:"user_id"`
	Cart                      Cart     `json:"cart"`
}

type Cart struct {
	RequestedItem CartItem `json:"requested_item"`
}

type CartItem struct {
	Type      string       `json:"cart_item_type"`
	VoucherID *string      `json:"cart_item_voucher_id"`
	Data      CartItemData `json:"cart_item_data"`
}

type CartItemData struct {
	SupportsSplitPayment bool                `json:"supports_split_payment"`
	NumberOfPlayers      int                 `json:"number_of_players"`
	TenantID             string              `json:"tenant_id"`
	ResourceID           string              `json:"resource_id"`
	Start                string              `json:"start"` // UTC, 2006-01-02T15:04:05
	Duration             float64             `json:"duration"`
	MatchRegistrations   []MatchRegistration `json:"match_registrations"`
}

type MatchRegistration struct {
	UserID string `json:"user_id"`
	PayNow bool   `json:"pay_now"`
}

// PaymentIntentUpdate selects the payment method on an existing intent.
type PaymentIntentUpdate struct {
	SelectedPaymentMethodID   string  `json:"selected_payment_method_id"`
	SelectedPaymentMethodData *string `json:"selected_payment_method_data"`
}
