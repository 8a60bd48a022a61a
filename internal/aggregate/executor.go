// Package aggregate fans a query out to every catalog source, merges the
// per-source lists into one deduplicated ranking and cuts pages out of it.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/libris/internal/catalog"
)

// Searcher is one fail-soft source, normally a *catalog.Adapter.
type Searcher interface {
	Name() string
	SearchResult(ctx context.Context, query string, limit, offset int) catalog.Result
}

// Executor issues one logical query to every searcher concurrently and
// waits for all of them to settle.
type Executor struct {
	searchers []Searcher
	timeout   time.Duration
	logger    *slog.Logger
}

// NewExecutor creates an executor over searchers in the given, fixed order.
// A positive timeout bounds each searcher call individually.
func NewExecutor(timeout time.Duration, searchers ...Searcher) *Executor {
	return &Executor{
		searchers: searchers,
		timeout:   timeout,
		logger:    slog.Default(),
	}
}

// Size returns the number of searchers.
func (e *Executor) Size() int {
	return len(e.searchers)
}

// FetchAllResults runs the query against every searcher. The result slice
// always has one entry per searcher, in searcher order, regardless of
// completion order. page is 1-based and selects offset (page-1)*limit.
func (e *Executor) FetchAllResults(ctx context.Context, query string, perSourceLimit, page int) []catalog.Result {
	offset := (max(page, 1) - 1) * perSourceLimit
	results := make([]catalog.Result, len(e.searchers))

	// A plain Group: one failure must not cancel the others.
	var g errgroup.Group
	for i, s := range e.searchers {
		g.Go(func() error {
			results[i] = e.run(ctx, s, query, perSourceLimit, offset)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// FetchAll is FetchAllResults with every failure collapsed to an empty list.
func (e *Executor) FetchAll(ctx context.Context, query string, perSourceLimit, page int) [][]catalog.Book {
	results := e.FetchAllResults(ctx, query, perSourceLimit, page)
	lists := make([][]catalog.Book, len(results))
	for i, res := range results {
		if !res.OK() && !errors.Is(res.Err, catalog.ErrSourceDisabled) {
			e.logger.Warn("Source failed", "source", res.Source, "query", query, "page", page, "error", res.Err)
		}
		lists[i] = res.BooksOrEmpty()
	}
	return lists
}

func (e *Executor) run(ctx context.Context, s Searcher, query string, limit, offset int) (res catalog.Result) {
	name := s.Name()
	defer func() {
		if r := recover(); r != nil {
			res = catalog.Result{Source: name, Err: fmt.Errorf("%s search panicked: %v", name, r)}
		}
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	res = s.SearchResult(ctx, query, limit, offset)
	if res.Source == "" {
		res.Source = name
	}
	e.logger.Debug("Source settled", "source", name, "books", len(res.Books), "ok", res.OK(), "elapsed", time.Since(start).Round(time.Millisecond))
	return res
}
