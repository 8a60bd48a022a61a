package catalog

import (
	"context"
)

// Source is one upstream catalog. Implementations map the upstream's raw
// schema to Book and report failures as errors; the fail-soft behaviour
// lives in Adapter, not here.
type Source interface {
	// Tag returns the id prefix for records from this source.
	Tag() Tag

	// Name returns the display name, normally Tag().SourceName().
	Name() string

	// Enabled reports whether the source can be queried. A source that
	// needs a credential is disabled while the credential is missing.
	Enabled() bool

	// Search returns up to limit normalized books starting at offset.
	// The query is already trimmed and non-empty. Raw items without a
	// title or author are dropped, not reported.
	Search(ctx context.Context, query string, limit, offset int) ([]Book, error)

	// FetchByID returns the record for an unsanitized native key, or
	// ErrNotFound.
	FetchByID(ctx context.Context, nativeKey string) (*Book, error)
}

// FallbackSearcher is implemented by sources that keep a secondary key
// space. When a direct fetch fails, the resolver asks the source for the
// best keyword match derived from the key.
type FallbackSearcher interface {
	FallbackSearch(ctx context.Context, nativeKey string) (*Book, error)
}

// Result is the outcome of one source search. Exactly one of Books or Err
// is meaningful.
type Result struct {
	Source string
	Books  []Book
	Err    error
}

// OK reports whether the search succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// BooksOrEmpty collapses a failed result to an empty list.
func (r Result) BooksOrEmpty() []Book {
	if r.Err != nil || r.Books == nil {
		return []Book{}
	}
	return r.Books
}
