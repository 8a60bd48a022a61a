package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/libris/internal/catalog"
)

type fakeFetcher struct {
	tag      catalog.Tag
	direct   *catalog.Book
	fallback *catalog.Book

	directKeys   []string
	fallbackKeys []string
}

func (f *fakeFetcher) Tag() catalog.Tag { return f.tag }

func (f *fakeFetcher) FetchByID(_ context.Context, key string) *catalog.Book {
	f.directKeys = append(f.directKeys, key)
	return f.direct
}

func (f *fakeFetcher) FallbackSearch(_ context.Context, key string) *catalog.Book {
	f.fallbackKeys = append(f.fallbackKeys, key)
	return f.fallback
}

func (f *fakeFetcher) calls() int { return len(f.directKeys) + len(f.fallbackKeys) }

type fakeFavorites struct {
	records []catalog.FavoriteRecord
	err     error
}

func (f fakeFavorites) GetAll(context.Context) ([]catalog.FavoriteRecord, error) {
	return f.records, f.err
}

func TestResolveFromFavoritesWithoutNetwork(t *testing.T) {
	stored := catalog.Book{ID: "manual-1700000000000", Title: "My Book", Author: "Me", Year: "2023", Source: "Manual"}
	manual := &fakeFetcher{tag: catalog.TagManual}
	ol := &fakeFetcher{tag: catalog.TagOpenLibrary}
	r := New(catalog.NewLookupCache(), fakeFavorites{records: []catalog.FavoriteRecord{{Book: stored}}}, manual, ol)

	got := r.Resolve(context.Background(), "manual-1700000000000")
	require.NotNil(t, got)
	assert.Equal(t, stored, *got)
	assert.Zero(t, manual.calls())
	assert.Zero(t, ol.calls())
}

func TestResolveFromLookupCache(t *testing.T) {
	lookup := catalog.NewLookupCache()
	lookup.Put(catalog.Book{ID: "google-abc", Title: "Cached", Author: "A", Source: "Google Books"})
	g := &fakeFetcher{tag: catalog.TagGoogleBooks}
	r := New(lookup, nil, g)

	got := r.Resolve(context.Background(), "google-abc")
	require.NotNil(t, got)
	assert.Equal(t, "Cached", got.Title)
	assert.Zero(t, g.calls())
}

func TestResolveDirectFetch(t *testing.T) {
	lookup := catalog.NewLookupCache()
	ol := &fakeFetcher{
		tag:    catalog.TagOpenLibrary,
		direct: &catalog.Book{ID: "openlib-other", Title: "Dune", Author: "Frank Herbert", Source: "Open Library"},
	}
	r := New(lookup, fakeFavorites{err: errors.New("db locked")}, ol)

	got := r.Resolve(context.Background(), "openlib-%2Fworks%2FOL893415W")
	require.NotNil(t, got)
	assert.Equal(t, "openlib-%2Fworks%2FOL893415W", got.ID)
	assert.Equal(t, []string{"/works/OL893415W"}, ol.directKeys)
	assert.Empty(t, ol.fallbackKeys)

	cached, ok := lookup.Get("openlib-%2Fworks%2FOL893415W")
	require.True(t, ok)
	assert.Equal(t, "Dune", cached.Title)

	r.Resolve(context.Background(), "openlib-%2Fworks%2FOL893415W")
	assert.Len(t, ol.directKeys, 1, "second resolve is served from the lookup cache")
}

func TestResolveKeywordFallback(t *testing.T) {
	ol := &fakeFetcher{
		tag:      catalog.TagOpenLibrary,
		fallback: &catalog.Book{ID: "openlib-x", Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Source: "Open Library (search)"},
	}
	r := New(nil, nil, ol)

	got := r.Resolve(context.Background(), "openlib-the-left-hand-of-darkness")
	require.NotNil(t, got)
	assert.Equal(t, "Open Library (search)", got.Source)
	assert.Equal(t, "openlib-the-left-hand-of-darkness", got.ID)
	assert.Equal(t, []string{"the-left-hand-of-darkness"}, ol.directKeys)
	assert.Equal(t, []string{"the-left-hand-of-darkness"}, ol.fallbackKeys)
}

func TestResolvePlaceholderWhenEverythingFails(t *testing.T) {
	lookup := catalog.NewLookupCache()
	ol := &fakeFetcher{tag: catalog.TagOpenLibrary}
	r := New(lookup, fakeFavorites{}, ol)

	got := r.Resolve(context.Background(), "openlib-some-title")
	require.NotNil(t, got)
	assert.Equal(t, "openlib-some-title", got.ID)
	assert.Equal(t, "Some title", got.Title)
	assert.Equal(t, PlaceholderAuthor, got.Author)
	assert.Equal(t, catalog.UnknownYear, got.Year)
	assert.Equal(t, "Open Library (limited information)", got.Source)
	assert.Contains(t, got.Description, "openlib-some-title")
	assert.True(t, catalog.Valid(*got))

	_, ok := lookup.Get("openlib-some-title")
	assert.True(t, ok)
}

func TestResolvePlaceholderWithoutFetcher(t *testing.T) {
	r := New(nil, nil)

	got := r.Resolve(context.Background(), "isbndb-9780441013593")
	require.NotNil(t, got)
	assert.Equal(t, "ISBNdb (limited information)", got.Source)
	assert.Equal(t, "9780441013593", got.Title)
}

func TestResolveUnparseable(t *testing.T) {
	r := New(nil, nil)

	for _, id := range []string{"", "   ", "nodash", "unknown-123", "google-"} {
		assert.Nil(t, r.Resolve(context.Background(), id), id)
	}
}

func TestPlaceholderBlankKey(t *testing.T) {
	b := Placeholder("manual---", catalog.TagManual, "--")
	assert.Equal(t, "manual---", b.Title)
	assert.Equal(t, "Manual (limited information)", b.Source)
}
