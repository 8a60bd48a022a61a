// Package catalog defines the unified book record shared by every upstream
// catalog source, along with the fail-soft adapter boundary and the
// in-memory lookup cache that sits between the sources and the rest of the
// application.
package catalog

import (
	"time"
)

// UnknownYear is the sentinel stored in Book.Year when a source does not
// report a usable publication year.
const UnknownYear = "unknown"

// Book is the canonical, source-agnostic book record produced by
// normalization. Pointer fields distinguish "not provided" from zero values.
type Book struct {
	// ID is "{tag}-{sanitized native key}" and is the only identity key used
	// for caching and favorites.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Title is required; items without one never leave normalization.
	Title string `json:"title" yaml:"title" validate:"required"`

	// Author is the first listed author.
	Author string `json:"author" yaml:"author" validate:"required"`

	// Year is a four digit year or UnknownYear.
	Year string `json:"year" yaml:"year"`

	Description string `json:"description" yaml:"description,omitempty"`

	// ThumbnailURL is always https when set.
	ThumbnailURL *string `json:"thumbnailUrl" yaml:"thumbnail,omitempty"`

	Genre     *string  `json:"genre" yaml:"genre,omitempty"`
	PageCount *int     `json:"pageCount" yaml:"pages,omitempty"`
	ISBN      *string  `json:"isbn" yaml:"isbn,omitempty"`
	Rating    *float64 `json:"rating" yaml:"rating,omitempty"`
	Language  *string  `json:"language" yaml:"language,omitempty"`

	// Source is the display name of the producing source (see SourceName).
	Source string `json:"source" yaml:"source" validate:"required,knownsource"`
}

// HasThumbnail reports whether the book carries a cover image URL.
func (b Book) HasThumbnail() bool {
	return b.ThumbnailURL != nil && *b.ThumbnailURL != ""
}

// FavoriteRecord is a Book saved by the user. AddedAt is assigned by the
// favorites store and orders records by recency.
type FavoriteRecord struct {
	Book
	AddedAt time.Time `json:"addedAt" yaml:"added"`
}

// Ptr returns a pointer to v. Used by the source mappers for optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// NonEmpty returns a pointer to s, or nil when s is blank.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Positive returns a pointer to n, or nil when n <= 0.
func Positive[T int | float64](n T) *T {
	if n <= 0 {
		return nil
	}
	return &n
}
