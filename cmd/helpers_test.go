package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/libris/internal/aggregate"
	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/config"
	"github.com/lepinkainen/libris/internal/favorites"
	"github.com/lepinkainen/libris/internal/resolve"
	"github.com/lepinkainen/libris/internal/testutil"
)

type stubSearcher struct {
	name  string
	books []catalog.Book
}

func (s stubSearcher) Name() string { return s.name }

func (s stubSearcher) SearchResult(_ context.Context, _ string, limit, offset int) catalog.Result {
	res := catalog.Result{Source: s.name}
	if offset >= len(s.books) {
		return res
	}
	end := min(offset+limit, len(s.books))
	res.Books = s.books[offset:end]
	return res
}

func testBook(id, title, author string) catalog.Book {
	return catalog.Book{ID: id, Title: title, Author: author, Year: "2001", Source: "Google Books"}
}

// testHarness swaps newApp for an app over stub searchers and a temp
// favorites database. Every command run gets a fresh app on the same files.
type testHarness struct {
	env    *testutil.TestEnv
	out    *bytes.Buffer
	dbPath string
	lookup *catalog.LookupCache
}

func newHarness(t *testing.T, books ...catalog.Book) *testHarness {
	t.Helper()
	testutil.ResetConfig(t)

	h := &testHarness{
		env:    testutil.NewTestEnv(t),
		out:    &bytes.Buffer{},
		lookup: catalog.NewLookupCache(),
	}
	h.dbPath = h.env.Path("favorites.db")
	h.lookup.PutAll(books)

	orig := newApp
	t.Cleanup(func() { newApp = orig })

	newApp = func(settings config.Settings) (*app, error) {
		store, err := favorites.Open(h.dbPath)
		if err != nil {
			return nil, err
		}
		exec := aggregate.NewExecutor(time.Second, stubSearcher{name: "Google Books", books: books})
		settings.NotesDir = h.env.Path("notes")
		return &app{
			settings:  settings,
			service:   aggregate.NewService(exec, aggregate.WithPageSize(2)),
			resolver:  resolve.New(h.lookup, store),
			favorites: store,
			out:       h.out,
			closers:   []io.Closer{store},
		}, nil
	}
	return h
}

// savedFavorites opens the store directly for assertions.
func (h *testHarness) savedFavorites(t *testing.T) []catalog.FavoriteRecord {
	t.Helper()

	store, err := favorites.Open(h.dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	return all
}

func (h *testHarness) notesDir() string {
	return filepath.Join(h.env.RootDir(), "notes")
}
