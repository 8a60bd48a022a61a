// Package favorites persists the user's saved books and notifies
// subscribers whenever the saved set changes.
package favorites

import (
	"context"

	"github.com/lepinkainen/libris/internal/catalog"
)

// Change is emitted after every modification with the full new state.
type Change struct {
	Count     int
	Favorites []catalog.FavoriteRecord
}

// Store defines the favorites collaborator used by the CLI and the resolver.
// Lists are ordered by AddedAt, oldest first.
type Store interface {
	// GetAll returns every saved record.
	GetAll(ctx context.Context) ([]catalog.FavoriteRecord, error)

	// Add saves book and returns the new list. A nil book, a book without
	// an id, or an id that is already saved leaves the store unchanged.
	Add(ctx context.Context, book *catalog.Book) ([]catalog.FavoriteRecord, error)

	// Remove deletes the record with id and returns the new list.
	Remove(ctx context.Context, id string) ([]catalog.FavoriteRecord, error)

	// ExistsByID reports whether id is saved.
	ExistsByID(ctx context.Context, id string) (bool, error)

	// FindDuplicate returns a saved record whose trimmed, lower-cased title
	// and author equal the arguments, or nil.
	FindDuplicate(ctx context.Context, title, author string) (*catalog.FavoriteRecord, error)

	// Subscribe returns a channel of changes and a func that unsubscribes
	// and closes it. Slow subscribers only see the latest change.
	Subscribe() (<-chan Change, func())

	// Close closes the underlying storage.
	Close() error
}
