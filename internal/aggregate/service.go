package aggregate

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/lepinkainen/libris/internal/catalog"
)

// Defaults mirror the configuration defaults.
const (
	DefaultQuery    = "programming"
	DefaultPageSize = 18

	minQuota = 3

	popularPerSource = 30
	popularLimit     = 90
	searchPerSource  = 6
	searchLimit      = 30
)

// Service answers page, search and popular requests over an Executor.
type Service struct {
	exec         *Executor
	defaultQuery string
	pageSize     int
	locale       language.Tag
	tracker      Tracker
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithDefaultQuery sets the term used when a query is blank.
func WithDefaultQuery(q string) Option {
	return func(s *Service) {
		if q = strings.TrimSpace(q); q != "" {
			s.defaultQuery = q
		}
	}
}

// WithPageSize sets the page size used when a caller passes zero.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLocale sets the collation locale, e.g. "en" or "es". Unparseable
// tags are ignored.
func WithLocale(tag string) Option {
	return func(s *Service) {
		if t, err := language.Parse(tag); err == nil {
			s.locale = t
		}
	}
}

// NewService creates a Service.
func NewService(exec *Executor, opts ...Option) *Service {
	s := &Service{
		exec:         exec,
		defaultQuery: DefaultQuery,
		pageSize:     DefaultPageSize,
		locale:       language.English,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tracker returns the service's request generation tracker.
func (s *Service) Tracker() *Tracker {
	return &s.tracker
}

// PageSize returns the default page size.
func (s *Service) PageSize() int {
	return s.pageSize
}

// NormalizeQuery trims q and substitutes the default term for a blank one.
func (s *Service) NormalizeQuery(q string) string {
	if q = strings.TrimSpace(q); q != "" {
		return q
	}
	return s.defaultQuery
}

// Quota is the per-source limit for one page: ceil(pageSize/sources), at
// least three.
func Quota(pageSize, sources int) int {
	if sources <= 0 {
		return 0
	}
	return max(minQuota, (pageSize+sources-1)/sources)
}

// GetPage returns the books at [(page-1)*pageSize, page*pageSize) of the
// combined ranking for query. The ranking is rebuilt from page 1 on every
// call: batch k is one fan-out at source page k, ranked on its own after
// dropping books already ranked in earlier batches, and appended. Batching
// stops once every source came back short of its quota. A short page means
// the sources ran dry, but that signal is approximate.
func (s *Service) GetPage(ctx context.Context, query string, page, pageSize int) []catalog.Book {
	query = s.NormalizeQuery(query)
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	logger := requestLogger("page", query).With("page", page, "page_size", pageSize)
	if page > math.MaxInt/pageSize {
		logger.Info("Page out of range")
		return []catalog.Book{}
	}
	quota := Quota(pageSize, s.exec.Size())
	want := pageSize * page

	m := newMerger(s.locale)
	var ranked []catalog.Book
	for k := 1; k <= page && len(ranked) < want; k++ {
		batch := s.exec.FetchAll(ctx, query, quota, k)
		if allEmpty(batch) {
			logger.Debug("Sources exhausted", "batch", k)
			break
		}
		ranked = append(ranked, m.merge(batch, want-len(ranked))...)
		if allShort(batch, quota) {
			logger.Debug("Sources ran short", "batch", k)
			break
		}
	}

	start := (page - 1) * pageSize
	if start >= len(ranked) {
		logger.Info("Page empty", "ranked", len(ranked))
		return []catalog.Book{}
	}
	end := min(start+pageSize, len(ranked))
	logger.Info("Page ready", "books", end-start, "ranked", len(ranked))
	return ranked[start:end]
}

// Search queries every source for a few books each. A blank query returns
// Popular instead.
func (s *Service) Search(ctx context.Context, query string) []catalog.Book {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Popular(ctx)
	}
	return s.collect(ctx, "search", query, searchPerSource, searchLimit)
}

// Popular lists books for the default term with a larger per-source quota.
func (s *Service) Popular(ctx context.Context) []catalog.Book {
	return s.collect(ctx, "popular", s.defaultQuery, popularPerSource, popularLimit)
}

func (s *Service) collect(ctx context.Context, kind, query string, perSource, limit int) []catalog.Book {
	logger := requestLogger(kind, query)
	lists := s.exec.FetchAll(ctx, query, perSource, 1)
	books := CombineLocale(lists, limit, s.locale)
	logger.Info("Search complete", "books", len(books), "sources", len(lists))
	return books
}

func requestLogger(kind, query string) *slog.Logger {
	return slog.Default().With("request_id", uuid.NewString(), "kind", kind, "query", query)
}

func allEmpty(lists [][]catalog.Book) bool {
	for _, l := range lists {
		if len(l) > 0 {
			return false
		}
	}
	return true
}

// allShort reports whether every source returned fewer than quota books, so
// later source pages have nothing more to give.
func allShort(lists [][]catalog.Book, quota int) bool {
	for _, l := range lists {
		if len(l) >= quota {
			return false
		}
	}
	return true
}
