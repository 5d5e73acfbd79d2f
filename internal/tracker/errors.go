package tracker

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTimeout marks a request that exceeded its configured timeout.
var ErrTimeout = errors.New("request timed out")

// APIError is a non-2xx response from the service. The body is captured
// (truncated) for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("service returned %d", e.StatusCode)
}

// IsConflict reports whether err is a 409 response, meaning the release or
// file already exists on the remote side.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// IsTimeout reports whether err was caused by the per-request timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// StatusCode extracts the HTTP status carried by err, or 0 when the error
// did not originate from a response.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
