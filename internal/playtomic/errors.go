package playtomic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when login is rejected with a 401.
	ErrInvalidCredentials = errors.New("playtomic: invalid credentials")

	// ErrNotAuthenticated is returned when an authenticated endpoint is
	// called before Login has succeeded.
	ErrNotAuthenticated = errors.New("playtomic: not authenticated, call Login first")
)

// APIError is returned for any non-2xx response from the Playtomic API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("playtomic: http %d: %s", e.StatusCode, e.Body)
}

// AsAPIError unwraps err into an *APIError, if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
