package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

type stubSource struct {
	enabled  bool
	books    []Book
	err      error
	byID     map[string]Book
	fallback *Book
	searches int
}

func (s *stubSource) Tag() Tag      { return TagGoogleBooks }
func (s *stubSource) Name() string  { return TagGoogleBooks.SourceName() }
func (s *stubSource) Enabled() bool { return s.enabled }

func (s *stubSource) Search(context.Context, string, int, int) ([]Book, error) {
	s.searches++
	return s.books, s.err
}

func (s *stubSource) FetchByID(_ context.Context, key string) (*Book, error) {
	if b, ok := s.byID[key]; ok {
		return &b, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

func (s *stubSource) FallbackSearch(context.Context, string) (*Book, error) {
	if s.fallback == nil {
		return nil, ErrNotFound
	}
	return s.fallback, nil
}

func validBook(id, title string) Book {
	return Book{ID: id, Title: title, Author: "Author", Source: "Google Books"}
}

func TestAdapterSearchFiltersAndCaches(t *testing.T) {
	lookup := NewLookupCache()
	src := &stubSource{enabled: true, books: []Book{
		validBook("google-1", "One"),
		{ID: "google-2", Title: "", Author: "A", Source: "Google Books"},
		validBook("google-3", "Three"),
	}}
	a := NewAdapter(src, lookup)

	got := a.Search(context.Background(), "q", 5, 0)
	assert.Equal(t, 2, len(got))
	assert.Equal(t, 2, lookup.Len())
	_, ok := lookup.Get("google-3")
	assert.True(t, ok)
}

func TestAdapterSearchFailSoft(t *testing.T) {
	src := &stubSource{enabled: true, err: errors.New("502")}
	a := NewAdapter(src, NewLookupCache())

	res := a.SearchResult(context.Background(), "q", 5, 0)
	assert.False(t, res.OK())
	assert.Contains(t, res.Err.Error(), "Google Books search")
	assert.Equal(t, []Book{}, res.BooksOrEmpty())

	got := a.Search(context.Background(), "q", 5, 0)
	assert.True(t, got != nil, "fail-soft search returns an empty list, not nil")
	assert.Equal(t, 0, len(got))
}

func TestAdapterDisabledSource(t *testing.T) {
	src := &stubSource{enabled: false, books: []Book{validBook("google-1", "One")}}
	a := NewAdapter(src, nil)

	res := a.SearchResult(context.Background(), "q", 5, 0)
	assert.True(t, errors.Is(res.Err, ErrSourceDisabled))
	assert.Equal(t, 0, src.searches)
	assert.Zero(t, a.FetchByID(context.Background(), "1"))
	assert.Zero(t, a.FallbackSearch(context.Background(), "1"))
}

func TestAdapterFetchByID(t *testing.T) {
	lookup := NewLookupCache()
	src := &stubSource{enabled: true, byID: map[string]Book{
		"1":   validBook("google-1", "One"),
		"bad": {ID: "google-bad", Title: "No author", Source: "Google Books"},
	}}
	a := NewAdapter(src, lookup)

	b := a.FetchByID(context.Background(), "1")
	assert.NotZero(t, b)
	assert.Equal(t, "One", b.Title)
	assert.Equal(t, 1, lookup.Len())

	assert.Zero(t, a.FetchByID(context.Background(), "bad"))
	assert.Zero(t, a.FetchByID(context.Background(), "missing"))

	src.err = errors.New("timeout")
	assert.Zero(t, a.FetchByID(context.Background(), "other"))
}

func TestAdapterFallbackSearch(t *testing.T) {
	fb := validBook("google-x", "Found")
	src := &stubSource{enabled: true, fallback: &fb}
	a := NewAdapter(src, nil)

	got := a.FallbackSearch(context.Background(), "found")
	assert.NotZero(t, got)
	assert.Equal(t, "Found", got.Title)

	src.fallback = nil
	assert.Zero(t, a.FallbackSearch(context.Background(), "found"))
}

func TestLookupCache(t *testing.T) {
	c := NewLookupCache()
	c.Put(Book{Title: "no id"})
	assert.Equal(t, 0, c.Len())

	c.PutAll([]Book{validBook("a", "A"), validBook("b", "B"), {}})
	c.Put(validBook("a", "A2"))
	assert.Equal(t, 2, c.Len())

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", got.Title)
}
