package sources

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// ParseYear extracts the first four digit run from a publication date such
// as "2005-08-02", "c1965" or "March 1999". Anything else is UnknownYear.
func ParseYear(date string) string {
	if y := yearPattern.FindString(date); y != "" {
		return y
	}
	return catalog.UnknownYear
}

// YearFromInt formats a numeric year, treating zero as unknown.
func YearFromInt(year int) string {
	if year <= 0 {
		return catalog.UnknownYear
	}
	return strconv.Itoa(year)
}

// FirstAuthor returns the first non-blank author name.
func FirstAuthor(authors []string) string {
	return catalog.FirstNonEmpty(authors...)
}

// First returns a pointer to the first non-blank entry, or nil.
func First(values []string) *string {
	return catalog.NonEmpty(catalog.FirstNonEmpty(values...))
}

// NormalizeISBN strips hyphens and spaces from an ISBN.
func NormalizeISBN(isbn string) string {
	normalized := strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(normalized, " ", "")
}

// PageFor converts an offset/limit pair into a 1-based page number for
// upstreams that paginate by page.
func PageFor(offset, limit int) int {
	if limit <= 0 || offset <= 0 {
		return 1
	}
	return offset/limit + 1
}
