package cmd

import (
	"log/slog"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/libris/internal/config"
	"github.com/lepinkainen/libris/internal/testutil"
)

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	cli := &CLI{}
	parser, err := newParser(cli, kong.Exit(func(code int) {
		t.Fatalf("unexpected Kong exit %d", code)
	}))
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestSearchCommandParsing(t *testing.T) {
	cli, _ := parseCLI(t, "search", "go", "programming", "-i", "--add")

	assert.Equal(t, []string{"go", "programming"}, cli.Search.Query)
	assert.True(t, cli.Search.Interactive)
	assert.True(t, cli.Search.Add)
}

func TestPageCommandDefaults(t *testing.T) {
	cli, _ := parseCLI(t, "page", "rust")

	assert.Equal(t, "rust", cli.Page.Query)
	assert.Equal(t, 1, cli.Page.Page)
	assert.Equal(t, 0, cli.Page.Size)

	cli, _ = parseCLI(t, "page", "rust", "-p", "3", "-n", "10")
	assert.Equal(t, 3, cli.Page.Page)
	assert.Equal(t, 10, cli.Page.Size)
}

func TestFavoritesDefaultsToList(t *testing.T) {
	_, ctx := parseCLI(t, "favorites")
	assert.Equal(t, "favorites list", ctx.Command())
}

func TestFavoritesAddParsing(t *testing.T) {
	cli, _ := parseCLI(t, "favorites", "add", "--title", "Mine", "--author", "Me", "--force")

	assert.Empty(t, cli.Favorites.Add.ID)
	assert.Equal(t, "Mine", cli.Favorites.Add.Title)
	assert.Equal(t, "Me", cli.Favorites.Add.Author)
	assert.True(t, cli.Favorites.Add.Force)
}

func TestCacheCommandParsing(t *testing.T) {
	cli, ctx := parseCLI(t, "cache", "invalidate", "googlebooks")
	assert.Equal(t, "cache invalidate <source>", ctx.Command())
	assert.Equal(t, "googlebooks", cli.Cache.Invalidate.Source)

	_, ctx = parseCLI(t, "cache", "prune")
	assert.Equal(t, "cache prune", ctx.Command())
}

func TestCoverCommandDefaults(t *testing.T) {
	cli, _ := parseCLI(t, "cover", "google-abc")

	assert.Equal(t, "google-abc", cli.Cover.ID)
	assert.Equal(t, ".", cli.Cover.Output)
	assert.Equal(t, 600, cli.Cover.MaxWidth)
}

func TestCoverUsesGlobalOverwrite(t *testing.T) {
	cli, ctx := parseCLI(t, "cover", "google-abc", "--overwrite", "-o", "covers")

	assert.Equal(t, "cover <id>", ctx.Command())
	assert.True(t, cli.Overwrite)
	assert.Equal(t, "covers", cli.Cover.Output)
}

func TestUpdateGlobalConfig(t *testing.T) {
	testutil.ResetConfig(t)

	cli := &CLI{
		Overwrite:   true,
		Locale:      "es",
		PageSize:    12,
		FavoritesDB: "/tmp/fav.db",
		CacheDBFile: "/tmp/cache.db",
		CacheTTL:    "12h",
		NoCache:     true,
		Verbose:     true,
	}
	updateGlobalConfig(cli)

	assert.True(t, config.OverwriteFiles)
	settings := config.Load()
	assert.Equal(t, "es", settings.Locale)
	assert.Equal(t, 12, settings.PageSize)
	assert.Equal(t, "/tmp/fav.db", settings.FavoritesDB)
	assert.Equal(t, "/tmp/cache.db", settings.CacheDB)
	assert.Equal(t, "12h0m0s", settings.CacheTTL.String())
	assert.False(t, settings.CacheEnabled)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestUpdateGlobalConfigKeepsConfigValues(t *testing.T) {
	testutil.ResetConfig(t)
	viper.Set("search.locale", "fi")
	viper.Set("cache.dbfile", "/data/cache.db")

	updateGlobalConfig(&CLI{})

	settings := config.Load()
	assert.Equal(t, "fi", settings.Locale)
	assert.Equal(t, "/data/cache.db", settings.CacheDB)
	assert.True(t, settings.CacheEnabled)
	assert.False(t, config.OverwriteFiles)
}

func TestInitLoggingAcceptsLevels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		assert.NotPanics(t, func() { initLogging(level) })
	}
}
