// Package config binds viper keys to typed settings.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for keys that have one.
const (
	DefaultQuery       = "programming"
	DefaultPageSize    = 18
	DefaultLocale      = "en"
	DefaultTimeout     = 10 * time.Second
	DefaultRateLimit   = 5.0
	DefaultFavoritesDB = "./favorites.db"
	DefaultCacheDB     = "./cache.db"
	DefaultCacheTTL    = 24 * time.Hour
	DefaultNotesDir    = "./notes/"

	GoogleBooksBaseURL = "https://www.googleapis.com/books/v1"
	OpenLibraryBaseURL = "https://openlibrary.org"
	OpenLibraryCovers  = "https://covers.openlibrary.org"
	ISBNdbBaseURL      = "https://api2.isbndb.com"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing notes are replaced on export
	OverwriteFiles bool
)

// SourceSettings configures one upstream catalog.
type SourceSettings struct {
	Enabled   bool
	BaseURL   string
	APIKey    string
	CoversURL string
}

// Settings is the resolved configuration.
type Settings struct {
	DefaultQuery string
	PageSize     int
	Locale       string

	Timeout   time.Duration
	RateLimit float64

	GoogleBooks SourceSettings
	OpenLibrary SourceSettings
	ISBNdb      SourceSettings

	FavoritesDB string

	CacheEnabled bool
	CacheDB      string
	CacheTTL     time.Duration

	NotesDir string
	LogLevel string
}

// InitConfig registers defaults and environment bindings.
func InitConfig() {
	viper.SetDefault("search.default_query", DefaultQuery)
	viper.SetDefault("search.page_size", DefaultPageSize)
	viper.SetDefault("search.locale", DefaultLocale)

	viper.SetDefault("sources.timeout", DefaultTimeout)
	viper.SetDefault("sources.rate_limit", DefaultRateLimit)
	viper.SetDefault("sources.googlebooks.enabled", true)
	viper.SetDefault("sources.googlebooks.base_url", GoogleBooksBaseURL)
	viper.SetDefault("sources.openlibrary.enabled", true)
	viper.SetDefault("sources.openlibrary.base_url", OpenLibraryBaseURL)
	viper.SetDefault("sources.openlibrary.covers_url", OpenLibraryCovers)
	viper.SetDefault("sources.isbndb.enabled", true)
	viper.SetDefault("sources.isbndb.base_url", ISBNdbBaseURL)

	viper.SetDefault("favorites.dbfile", DefaultFavoritesDB)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dbfile", DefaultCacheDB)
	viper.SetDefault("cache.ttl", DefaultCacheTTL.String())
	viper.SetDefault("export.dir", DefaultNotesDir)
	viper.SetDefault("export.overwrite", false)
	viper.SetDefault("log.level", "info")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("sources.googlebooks.api_key", "GOOGLE_BOOKS_API_KEY")
	_ = viper.BindEnv("sources.isbndb.api_key", "ISBNDB_API_KEY")

	OverwriteFiles = viper.GetBool("export.overwrite")
}

// Load reads the current viper state.
func Load() Settings {
	pageSize := viper.GetInt("search.page_size")
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	timeout := viper.GetDuration("sources.timeout")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ttl := viper.GetDuration("cache.ttl")
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return Settings{
		DefaultQuery: orDefault(viper.GetString("search.default_query"), DefaultQuery),
		PageSize:     pageSize,
		Locale:       orDefault(viper.GetString("search.locale"), DefaultLocale),
		Timeout:      timeout,
		RateLimit:    viper.GetFloat64("sources.rate_limit"),
		GoogleBooks: SourceSettings{
			Enabled: viper.GetBool("sources.googlebooks.enabled"),
			BaseURL: orDefault(viper.GetString("sources.googlebooks.base_url"), GoogleBooksBaseURL),
			APIKey:  strings.TrimSpace(viper.GetString("sources.googlebooks.api_key")),
		},
		OpenLibrary: SourceSettings{
			Enabled:   viper.GetBool("sources.openlibrary.enabled"),
			BaseURL:   orDefault(viper.GetString("sources.openlibrary.base_url"), OpenLibraryBaseURL),
			CoversURL: orDefault(viper.GetString("sources.openlibrary.covers_url"), OpenLibraryCovers),
		},
		ISBNdb: SourceSettings{
			Enabled: viper.GetBool("sources.isbndb.enabled"),
			BaseURL: orDefault(viper.GetString("sources.isbndb.base_url"), ISBNdbBaseURL),
			APIKey:  strings.TrimSpace(viper.GetString("sources.isbndb.api_key")),
		},
		FavoritesDB:  orDefault(viper.GetString("favorites.dbfile"), DefaultFavoritesDB),
		CacheEnabled: viper.GetBool("cache.enabled"),
		CacheDB:      orDefault(viper.GetString("cache.dbfile"), DefaultCacheDB),
		CacheTTL:     ttl,
		NotesDir:     orDefault(viper.GetString("export.dir"), DefaultNotesDir),
		LogLevel:     orDefault(viper.GetString("log.level"), "info"),
	}
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
