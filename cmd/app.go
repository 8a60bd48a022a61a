package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/lepinkainen/libris/internal/aggregate"
	"github.com/lepinkainen/libris/internal/cache"
	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/config"
	"github.com/lepinkainen/libris/internal/favorites"
	"github.com/lepinkainen/libris/internal/ratelimit"
	"github.com/lepinkainen/libris/internal/resolve"
	"github.com/lepinkainen/libris/internal/sources"
	"github.com/lepinkainen/libris/internal/sources/googlebooks"
	"github.com/lepinkainen/libris/internal/sources/isbndb"
	"github.com/lepinkainen/libris/internal/sources/openlibrary"
)

// app holds the wired services a command runs against.
type app struct {
	settings  config.Settings
	service   *aggregate.Service
	resolver  *resolve.Resolver
	favorites favorites.Store
	out       io.Writer

	closers []io.Closer
}

// newApp is swapped out in tests.
var newApp = buildApp

func buildApp(settings config.Settings) (*app, error) {
	a := &app{settings: settings, out: os.Stdout}

	var responseCache *cache.CacheDB
	if settings.CacheEnabled {
		db, err := cache.Open(settings.CacheDB, settings.CacheTTL)
		if err != nil {
			// The cache only saves requests; run without it.
			slog.Warn("Response cache unavailable", "path", settings.CacheDB, "error", err)
		} else {
			responseCache = db
			a.closers = append(a.closers, db)
		}
	}

	store, err := favorites.Open(settings.FavoritesDB)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to open favorites: %w", err), a.Close())
	}
	a.favorites = store
	a.closers = append(a.closers, store)

	lookup := catalog.NewLookupCache()
	adapters := buildAdapters(settings, responseCache, lookup)

	searchers := make([]aggregate.Searcher, len(adapters))
	fetchers := make([]resolve.Fetcher, len(adapters))
	for i, ad := range adapters {
		searchers[i] = ad
		fetchers[i] = ad
	}

	a.service = aggregate.NewService(
		aggregate.NewExecutor(settings.Timeout, searchers...),
		aggregate.WithDefaultQuery(settings.DefaultQuery),
		aggregate.WithPageSize(settings.PageSize),
		aggregate.WithLocale(settings.Locale),
	)
	a.resolver = resolve.New(lookup, store, fetchers...)

	slog.Debug("Sources configured", "count", len(adapters), "cache", responseCache != nil)
	return a, nil
}

// buildAdapters creates one fail-soft adapter per enabled source, in the
// fixed Google Books, Open Library, ISBNdb order.
func buildAdapters(settings config.Settings, responseCache *cache.CacheDB, lookup *catalog.LookupCache) []*catalog.Adapter {
	httpClient := &http.Client{Timeout: settings.Timeout}

	common := func(name, table string, src config.SourceSettings) []sources.Option {
		opts := []sources.Option{
			sources.WithHTTPClient(httpClient),
			sources.WithBaseURL(src.BaseURL),
			sources.WithRateLimiter(ratelimit.New(name, settings.RateLimit)),
		}
		if responseCache != nil {
			opts = append(opts, sources.WithCache(responseCache, table))
		}
		return opts
	}

	var adapters []*catalog.Adapter
	if settings.GoogleBooks.Enabled {
		src := googlebooks.New(settings.GoogleBooks.APIKey,
			common("googlebooks", cache.GoogleBooksTable, settings.GoogleBooks)...)
		adapters = append(adapters, catalog.NewAdapter(src, lookup))
	}
	if settings.OpenLibrary.Enabled {
		src := openlibrary.New(settings.OpenLibrary.CoversURL,
			common("openlibrary", cache.OpenLibraryTable, settings.OpenLibrary)...)
		adapters = append(adapters, catalog.NewAdapter(src, lookup))
	}
	if settings.ISBNdb.Enabled {
		if settings.ISBNdb.APIKey == "" {
			slog.Debug("ISBNdb API key not set, source will return nothing")
		}
		src := isbndb.New(settings.ISBNdb.APIKey,
			common("isbndb", cache.ISBNdbTable, settings.ISBNdb)...)
		adapters = append(adapters, catalog.NewAdapter(src, lookup))
	}
	return adapters
}

// Close releases the stores in reverse order of opening.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// openApp loads the current settings and wires an app for one command.
func openApp() (*app, error) {
	return newApp(config.Load())
}
