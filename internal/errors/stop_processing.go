package errors

import (
	"errors"
	"fmt"
)

// StopProcessingError is returned when the user quits browsing on purpose.
// Callers log it and exit cleanly instead of reporting a failure.
type StopProcessingError struct {
	Reason string
	// Query and Page record where browsing stopped; both are empty for
	// stops outside the result selector.
	Query string
	Page  int
}

func (e *StopProcessingError) Error() string {
	if e.Query == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s (query %q, page %d)", e.Reason, e.Query, e.Page)
}

// NewStopProcessingError creates a stop without selector context.
func NewStopProcessingError(reason string) *StopProcessingError {
	return &StopProcessingError{Reason: reason}
}

// NewSelectorQuit records that the user left the result selector while
// page of query was on screen.
func NewSelectorQuit(query string, page int) *StopProcessingError {
	return &StopProcessingError{Reason: "search stopped by user", Query: query, Page: page}
}

// AsStopProcessingError unwraps err to a StopProcessingError.
func AsStopProcessingError(err error) (*StopProcessingError, bool) {
	var stopErr *StopProcessingError
	if errors.As(err, &stopErr) {
		return stopErr, true
	}
	return nil, false
}

// IsStopProcessingError reports whether err wraps a StopProcessingError.
func IsStopProcessingError(err error) bool {
	_, ok := AsStopProcessingError(err)
	return ok
}
