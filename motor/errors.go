package motor

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable means neither the remote directory nor the local dataset
// could be read. The picker cannot be used until a reload succeeds.
var ErrDataUnavailable = errors.New("country data unavailable")

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.URL, e.StatusCode)
}

// DecodeError is a response body that could not be parsed.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MissingFieldError is a geolocation response without a required field.
type MissingFieldError struct {
	URL   string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: response has no %q field", e.URL, e.Field)
}

// ServiceError is a 2xx geolocation response that reports an error in its
// body, e.g. {"error": true, "reason": "RateLimited"}.
type ServiceError struct {
	URL    string
	Reason string
}

func (e *ServiceError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s reported an error", e.URL)
	}
	return fmt.Sprintf("%s reported an error: %s", e.URL, e.Reason)
}
