// Package resolve turns an opaque book id back into a record, trying the
// cheapest source first and degrading to a placeholder built from the id.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
)

// PlaceholderAuthor is the author of a record synthesized from an id.
const PlaceholderAuthor = "Author unavailable"

// FavoritesReader is the part of the favorites store the resolver reads.
type FavoritesReader interface {
	GetAll(ctx context.Context) ([]catalog.FavoriteRecord, error)
}

// Fetcher re-fetches records of one source. *catalog.Adapter implements it.
type Fetcher interface {
	Tag() catalog.Tag
	FetchByID(ctx context.Context, nativeKey string) *catalog.Book
	FallbackSearch(ctx context.Context, nativeKey string) *catalog.Book
}

// Resolver locates a book by id.
type Resolver struct {
	lookup    *catalog.LookupCache
	favorites FavoritesReader
	fetchers  map[catalog.Tag]Fetcher
	logger    *slog.Logger
}

// New creates a resolver. favorites may be nil.
func New(lookup *catalog.LookupCache, favorites FavoritesReader, fetchers ...Fetcher) *Resolver {
	if lookup == nil {
		lookup = catalog.NewLookupCache()
	}
	byTag := make(map[catalog.Tag]Fetcher, len(fetchers))
	for _, f := range fetchers {
		byTag[f.Tag()] = f
	}
	return &Resolver{
		lookup:    lookup,
		favorites: favorites,
		fetchers:  byTag,
		logger:    slog.Default(),
	}
}

// Resolve returns the book for id. Attempts, first hit wins: the favorites
// store, the lookup cache, a direct fetch from the source named by the id
// prefix, that source's keyword fallback, and finally a placeholder derived
// from the id. Resolve returns nil only when id cannot be parsed. Records
// found through the cache, the source or the placeholder are stored in the
// lookup cache under id.
func (r *Resolver) Resolve(ctx context.Context, id string) *catalog.Book {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	logger := r.logger.With("id", id)

	if b := r.fromFavorites(ctx, id, logger); b != nil {
		logger.Debug("Resolved from favorites")
		return b
	}

	if b, ok := r.lookup.Get(id); ok {
		logger.Debug("Resolved from lookup cache")
		return &b
	}

	tag, key, err := catalog.ParseID(id)
	if err != nil {
		logger.Warn("Unresolvable id", "error", err)
		return nil
	}

	if f, ok := r.fetchers[tag]; ok {
		if b := f.FetchByID(ctx, key); b != nil {
			logger.Debug("Resolved by direct fetch", "source", b.Source)
			return r.remember(id, *b)
		}
		if b := f.FallbackSearch(ctx, key); b != nil {
			logger.Debug("Resolved by keyword fallback", "source", b.Source)
			return r.remember(id, *b)
		}
	}

	logger.Info("Falling back to placeholder", "source", tag.SourceName())
	return r.remember(id, Placeholder(id, tag, key))
}

// Placeholder synthesizes a minimal record from an id alone.
func Placeholder(id string, tag catalog.Tag, nativeKey string) catalog.Book {
	title := catalog.Deslugify(nativeKey)
	if title == "" {
		title = id
	}
	return catalog.Book{
		ID:     id,
		Title:  title,
		Author: PlaceholderAuthor,
		Year:   catalog.UnknownYear,
		Description: fmt.Sprintf(
			"This book comes from %s, but its full details could not be retrieved. ID: %s",
			tag.SourceName(), id),
		Source: tag.LimitedSourceName(),
	}
}

func (r *Resolver) fromFavorites(ctx context.Context, id string, logger *slog.Logger) *catalog.Book {
	if r.favorites == nil {
		return nil
	}
	favs, err := r.favorites.GetAll(ctx)
	if err != nil {
		logger.Warn("Favorites unavailable", "error", err)
		return nil
	}
	for _, f := range favs {
		if f.ID == id {
			b := f.Book
			return &b
		}
	}
	return nil
}

// remember pins the record to the requested id so later lookups of the
// same id hit the cache.
func (r *Resolver) remember(id string, b catalog.Book) *catalog.Book {
	b.ID = id
	r.lookup.Put(b)
	return &b
}
