package aggregate

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lepinkainen/libris/internal/catalog"
)

// Combine merges per-source lists into one ranking of at most limit books
// using English collation. See CombineLocale.
func Combine(lists [][]catalog.Book, limit int) []catalog.Book {
	return CombineLocale(lists, limit, language.English)
}

// CombineLocale flattens lists in order, drops later records whose dedup
// key was already seen, sorts books with a thumbnail before those without
// and then by title under the locale's collation, and truncates to limit.
// The sort is stable, so equal titles keep their flattened order.
func CombineLocale(lists [][]catalog.Book, limit int, locale language.Tag) []catalog.Book {
	return newMerger(locale).merge(lists, limit)
}

// merger carries the dedup set across successive batches of one ranking.
type merger struct {
	collator *collate.Collator
	seen     map[string]struct{}
}

func newMerger(locale language.Tag) *merger {
	return &merger{
		// Collators are not safe for concurrent use, so each ranking owns one.
		collator: collate.New(locale),
		seen:     make(map[string]struct{}),
	}
}

func (m *merger) merge(lists [][]catalog.Book, limit int) []catalog.Book {
	if limit <= 0 {
		return []catalog.Book{}
	}

	var total int
	for _, l := range lists {
		total += len(l)
	}

	unique := make([]catalog.Book, 0, total)
	for _, l := range lists {
		for _, b := range l {
			key := catalog.DedupKey(b)
			if _, dup := m.seen[key]; dup {
				continue
			}
			m.seen[key] = struct{}{}
			unique = append(unique, b)
		}
	}

	slices.SortStableFunc(unique, m.compare)

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

func (m *merger) compare(a, b catalog.Book) int {
	if at, bt := a.HasThumbnail(), b.HasThumbnail(); at != bt {
		if at {
			return -1
		}
		return 1
	}
	return m.collator.CompareString(a.Title, b.Title)
}
