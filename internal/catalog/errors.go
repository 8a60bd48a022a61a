package catalog

import "errors"

var (
	// ErrNotFound is returned by a Source when the upstream has no record
	// for the requested key.
	ErrNotFound = errors.New("book not found")

	// ErrSourceDisabled is returned when a source is switched off or is
	// missing a required credential.
	ErrSourceDisabled = errors.New("source disabled")

	// ErrInvalidID is returned for ids that do not carry a known source tag.
	ErrInvalidID = errors.New("invalid book id")
)
