package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("tournament API is temporarily unavailable")
	// ErrUnexpectedStatus wraps non-2xx responses that carry no readable error body.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrInvalidResponse  = errors.New("invalid response body")
)

// APIError is a failed request whose body carried a JSON "message".
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// AsAPIError unwraps err into a structured backend error, if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
