package cmd

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/libris/internal/cache"
	"github.com/lepinkainen/libris/internal/config"
	"github.com/lepinkainen/libris/internal/errors"
)

// CLI represents the complete command structure for the libris application
type CLI struct {
	// Global flags
	Verbose   bool   `short:"v" help:"Enable debug logging"`
	Overwrite bool   `help:"Overwrite existing notes and covers when exporting"`
	Locale    string `help:"Locale used to order titles (e.g. en, es)"`
	PageSize  int    `help:"Books per page in paged views"`

	// Storage flags
	FavoritesDB string `help:"Path to favorites SQLite database file"`
	CacheDBFile string `help:"Path to response cache SQLite database file"`
	CacheTTL    string `help:"Response cache time-to-live (e.g. 24h)"`
	NoCache     bool   `help:"Do not cache upstream responses"`

	Search    SearchCmd    `cmd:"" help:"Search all catalogs"`
	Popular   PopularCmd   `cmd:"" help:"List popular books for the default query"`
	Page      PageCmd      `cmd:"" help:"Show one page of combined results"`
	Show      ShowCmd      `cmd:"" help:"Show the details of a book by id"`
	Cover     CoverCmd     `cmd:"" help:"Download the cover of a book"`
	Favorites FavoritesCmd `cmd:"" help:"Manage favorites"`
	Cache     CacheCmd     `cmd:"" help:"Manage the upstream response cache"`
}

// CacheCmd groups the cache subcommands.
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Clear cached responses for one source"`
	Prune      cache.PruneCacheCmd      `cmd:"" help:"Delete expired cache entries"`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("libris"),
		kong.Description("Search book catalogs and keep a list of favorites."),
		kong.UsageOnError(),
	}, options...)
	return kong.New(cli, options...)
}

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	initConfig()
	updateGlobalConfig(&cli)
	initLogging(viper.GetString("log.level"))

	if err := ctx.Run(); err != nil {
		if stop, ok := errors.AsStopProcessingError(err); ok {
			slog.Info("Stopped", "reason", stop.Reason, "query", stop.Query, "page", stop.Page)
			return
		}
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.InitConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.SetOverwriteFiles(viper.GetBool("export.overwrite"))
}

// updateGlobalConfig copies flags that were set on top of the config file.
func updateGlobalConfig(cli *CLI) {
	if cli.Overwrite {
		viper.Set("export.overwrite", true)
		config.SetOverwriteFiles(true)
	}
	if cli.Locale != "" {
		viper.Set("search.locale", cli.Locale)
	}
	if cli.PageSize > 0 {
		viper.Set("search.page_size", cli.PageSize)
	}
	if cli.FavoritesDB != "" {
		viper.Set("favorites.dbfile", cli.FavoritesDB)
	}
	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}
	if cli.NoCache {
		viper.Set("cache.enabled", false)
	}
	if cli.Verbose {
		viper.Set("log.level", "debug")
	}
}

func initLogging(levelName string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level = slog.LevelInfo
	}

	// Logs go to stderr so command output stays pipeable.
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
