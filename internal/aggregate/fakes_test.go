package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lepinkainen/libris/internal/catalog"
)

var _ Searcher = (*catalog.Adapter)(nil)

type searchCall struct {
	query  string
	limit  int
	offset int
}

type fakeSearcher struct {
	name  string
	delay time.Duration
	fn    func(query string, limit, offset int) ([]catalog.Book, error)

	mu    sync.Mutex
	calls []searchCall
}

func (f *fakeSearcher) Name() string { return f.name }

func (f *fakeSearcher) SearchResult(ctx context.Context, query string, limit, offset int) catalog.Result {
	f.mu.Lock()
	f.calls = append(f.calls, searchCall{query: query, limit: limit, offset: offset})
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return catalog.Result{Source: f.name, Err: ctx.Err()}
		}
	}
	books, err := f.fn(query, limit, offset)
	return catalog.Result{Source: f.name, Books: books, Err: err}
}

func (f *fakeSearcher) Calls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.calls...)
}

func staticSearcher(name string, books ...catalog.Book) *fakeSearcher {
	return &fakeSearcher{name: name, fn: func(string, int, int) ([]catalog.Book, error) {
		return books, nil
	}}
}

func failingSearcher(name string) *fakeSearcher {
	return &fakeSearcher{name: name, fn: func(string, int, int) ([]catalog.Book, error) {
		return nil, fmt.Errorf("%s is down", name)
	}}
}

func panickingSearcher(name string) *fakeSearcher {
	return &fakeSearcher{name: name, fn: func(string, int, int) ([]catalog.Book, error) {
		panic("boom")
	}}
}

// pagedSearcher returns limit deterministic books starting at offset,
// up to total books overall.
func pagedSearcher(name string, total int) *fakeSearcher {
	return &fakeSearcher{name: name, fn: func(_ string, limit, offset int) ([]catalog.Book, error) {
		books := []catalog.Book{}
		for i := offset; i < offset+limit && i < total; i++ {
			books = append(books, book(fmt.Sprintf("%s-%d", name, i), fmt.Sprintf("%s title %03d", name, i), name+" author", i%2 == 0))
		}
		return books, nil
	}}
}

func book(id, title, author string, thumb bool) catalog.Book {
	b := catalog.Book{
		ID:     id,
		Title:  title,
		Author: author,
		Year:   catalog.UnknownYear,
		Source: catalog.TagManual.SourceName(),
	}
	if thumb {
		b.ThumbnailURL = catalog.Ptr("https://covers.example/" + id + ".jpg")
	}
	return b
}

func ids(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
