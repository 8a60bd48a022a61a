package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Adapter wraps a Source with the fail-soft contract: searches never return
// an error to the caller, only a (possibly empty) list, and fetches return
// nil on any failure. Every record that passes validation is written to
// the shared LookupCache.
type Adapter struct {
	source Source
	lookup *LookupCache
	logger *slog.Logger
}

// NewAdapter wraps source. lookup may be shared between adapters and the
// resolver; a nil lookup disables caching.
func NewAdapter(source Source, lookup *LookupCache) *Adapter {
	return &Adapter{
		source: source,
		lookup: lookup,
		logger: slog.Default().With("source", source.Name()),
	}
}

// Name returns the wrapped source's display name.
func (a *Adapter) Name() string {
	return a.source.Name()
}

// Tag returns the wrapped source's id prefix.
func (a *Adapter) Tag() Tag {
	return a.source.Tag()
}

// Source returns the wrapped source.
func (a *Adapter) Source() Source {
	return a.source
}

// SearchResult runs a search and reports the typed outcome. Invalid
// records are filtered out of a successful result.
func (a *Adapter) SearchResult(ctx context.Context, query string, limit, offset int) Result {
	res := Result{Source: a.source.Name()}
	if !a.source.Enabled() {
		res.Err = ErrSourceDisabled
		return res
	}

	books, err := a.source.Search(ctx, query, limit, offset)
	if err != nil {
		res.Err = fmt.Errorf("%s search %q: %w", a.source.Name(), query, err)
		return res
	}

	res.Books = a.keepValid(books)
	return res
}

// Search is SearchResult collapsed to a list. Failures are logged.
func (a *Adapter) Search(ctx context.Context, query string, limit, offset int) []Book {
	res := a.SearchResult(ctx, query, limit, offset)
	if !res.OK() && !errors.Is(res.Err, ErrSourceDisabled) {
		a.logger.Warn("Search failed", "query", query, "error", res.Err)
	}
	return res.BooksOrEmpty()
}

// FetchByID returns the book for a native key or nil.
func (a *Adapter) FetchByID(ctx context.Context, nativeKey string) *Book {
	if !a.source.Enabled() {
		return nil
	}
	b, err := a.source.FetchByID(ctx, nativeKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn("Fetch failed", "key", nativeKey, "error", err)
		}
		return nil
	}
	return a.accept(b)
}

// FallbackSearch asks the source for a keyword match on nativeKey when the
// source supports it.
func (a *Adapter) FallbackSearch(ctx context.Context, nativeKey string) *Book {
	fs, ok := a.source.(FallbackSearcher)
	if !ok || !a.source.Enabled() {
		return nil
	}
	b, err := fs.FallbackSearch(ctx, nativeKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn("Fallback search failed", "key", nativeKey, "error", err)
		}
		return nil
	}
	return a.accept(b)
}

func (a *Adapter) accept(b *Book) *Book {
	if b == nil {
		return nil
	}
	if err := Validate(*b); err != nil {
		a.logger.Debug("Dropping invalid record", "id", b.ID, "error", err)
		return nil
	}
	if a.lookup != nil {
		a.lookup.Put(*b)
	}
	return b
}

func (a *Adapter) keepValid(books []Book) []Book {
	valid := make([]Book, 0, len(books))
	for _, b := range books {
		if Valid(b) {
			valid = append(valid, b)
		}
	}
	if a.lookup != nil {
		a.lookup.PutAll(valid)
	}
	return valid
}
