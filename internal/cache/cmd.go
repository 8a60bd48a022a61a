package cache

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache source to invalidate: googlebooks, openlibrary, isbndb, all" required:""`
}

func (i *InvalidateCacheCmd) Run() error {
	tables, err := tablesFor(i.Source)
	if err != nil {
		return err
	}

	dbPath := viper.GetString("cache.dbfile")
	slog.Info("Invalidating cache", "source", i.Source, "database", dbPath)

	cacheDB, err := Open(dbPath, viper.GetDuration("cache.ttl"))
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer func() { _ = cacheDB.Close() }()

	return invalidate(cacheDB, tables)
}

// PruneCacheCmd removes expired entries from every cache table.
type PruneCacheCmd struct{}

func (p *PruneCacheCmd) Run() error {
	cacheDB, err := Open(viper.GetString("cache.dbfile"), viper.GetDuration("cache.ttl"))
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer func() { _ = cacheDB.Close() }()

	var total int64
	for _, table := range sortedTables() {
		rows, err := cacheDB.ClearExpired(table)
		if err != nil {
			return err
		}
		total += rows
	}
	slog.Info("Cache pruned", "rows_deleted", total, "ttl", cacheDB.TTL().Round(time.Second))
	return nil
}

func invalidate(cacheDB *CacheDB, tables []string) error {
	for _, table := range tables {
		rows, err := cacheDB.InvalidateSource(table)
		if err != nil {
			return fmt.Errorf("failed to invalidate cache: %w", err)
		}
		slog.Info("Cache invalidated", "table", table, "rows_deleted", rows)
	}
	return nil
}

func tablesFor(source string) ([]string, error) {
	if source == "all" {
		return sortedTables(), nil
	}
	table, ok := TableForSource[source]
	if !ok {
		names := make([]string, 0, len(TableForSource))
		for name := range TableForSource {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("invalid cache source '%s'; valid sources are: %s, all", source, strings.Join(names, ", "))
	}
	return []string{table}, nil
}

func sortedTables() []string {
	tables := make([]string, 0, len(ValidCacheTableNames))
	for table := range ValidCacheTableNames {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}
