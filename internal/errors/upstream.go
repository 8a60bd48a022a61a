package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// UpstreamError is a non-success HTTP answer from a catalog API.
type UpstreamError struct {
	Source     string
	StatusCode int
	Message    string
	Body       string // first bytes of the response body, if any
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Source, e.Message, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Source, e.Message, e.StatusCode)
}

// NewUpstreamError builds an UpstreamError with a message derived from the
// status code.
func NewUpstreamError(source string, statusCode int, body string) *UpstreamError {
	var message string
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		message = "credential rejected"
	case statusCode == http.StatusNotFound:
		message = "not found"
	case statusCode >= 500:
		message = "upstream unavailable"
	default:
		message = "unexpected status"
	}

	return &UpstreamError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

// IsUpstreamError reports whether err is an UpstreamError (even when wrapped).
func IsUpstreamError(err error) bool {
	var upErr *UpstreamError
	return stdErrors.As(err, &upErr)
}

// StatusCode returns the HTTP status carried by an UpstreamError in err's
// chain, or 0.
func StatusCode(err error) int {
	var upErr *UpstreamError
	if stdErrors.As(err, &upErr) {
		return upErr.StatusCode
	}
	return 0
}
