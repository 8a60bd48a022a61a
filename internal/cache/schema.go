package cache

import "fmt"

// Table names, one per upstream catalog. All cache tables share the same
// layout with "cache_key" as the primary key.
const (
	GoogleBooksTable = "googlebooks_cache"
	OpenLibraryTable = "openlibrary_cache"
	ISBNdbTable      = "isbndb_cache"
)

// schemaFor returns the DDL for one response cache table.
func schemaFor(table string) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_cached_at ON %[1]s(cached_at);
`, table)
}

// ValidCacheTableNames is the whitelist of allowed cache table names.
// Table names are interpolated into SQL, so nothing else is accepted.
var ValidCacheTableNames = map[string]bool{
	GoogleBooksTable: true,
	OpenLibraryTable: true,
	ISBNdbTable:      true,
}

// TableForSource maps a CLI source name to its cache table.
var TableForSource = map[string]string{
	"googlebooks": GoogleBooksTable,
	"openlibrary": OpenLibraryTable,
	"isbndb":      ISBNdbTable,
}
