package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// Tag is the id prefix identifying which source produced a record.
type Tag string

const (
	TagGoogleBooks Tag = "google"
	TagOpenLibrary Tag = "openlib"
	TagISBNdb      Tag = "isbndb"
	// TagManual and TagBackup mark records that did not come from a network
	// source: user-entered books and the static offline list.
	TagManual Tag = "manual"
	TagBackup Tag = "backup"
)

var sourceNames = map[Tag]string{
	TagGoogleBooks: "Google Books",
	TagOpenLibrary: "Open Library",
	TagISBNdb:      "ISBNdb",
	TagManual:      "Manual",
	TagBackup:      "Backup",
}

// SourceName returns the display name stored in Book.Source for the tag.
func (t Tag) SourceName() string {
	return sourceNames[t]
}

// Known reports whether t is one of the defined tags.
func (t Tag) Known() bool {
	_, ok := sourceNames[t]
	return ok
}

// SearchSourceName is the Source of a record recovered through a keyword
// search rather than a direct fetch.
func (t Tag) SearchSourceName() string {
	return t.SourceName() + " (search)"
}

// LimitedSourceName is the Source of a placeholder record synthesized from
// an id alone.
func (t Tag) LimitedSourceName() string {
	return t.SourceName() + " (limited information)"
}

// IsKnownSource reports whether name is a source display name, optionally
// followed by a parenthesized variant such as " (search)".
func IsKnownSource(name string) bool {
	base, _, _ := strings.Cut(name, " (")
	for _, known := range sourceNames {
		if base != known {
			continue
		}
		return base == name || strings.HasSuffix(name, ")")
	}
	return false
}

// ComposeID builds the record id for a native key. The key is path-escaped
// so the id stays a single path segment; ParseID reverses it.
func ComposeID(tag Tag, nativeKey string) string {
	return string(tag) + "-" + SanitizeKey(nativeKey)
}

// SanitizeKey escapes characters that would split a path segment.
func SanitizeKey(key string) string {
	return url.PathEscape(key)
}

// UnsanitizeKey restores a key escaped by SanitizeKey. Keys that are not
// valid escapes are returned unchanged.
func UnsanitizeKey(key string) string {
	raw, err := url.PathUnescape(key)
	if err != nil {
		return key
	}
	return raw
}

// ParseID splits an id into its tag and the unsanitized native key.
func ParseID(id string) (Tag, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSpace(id), "-")
	if !ok || prefix == "" || rest == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	tag := Tag(prefix)
	if !tag.Known() {
		return "", "", fmt.Errorf("%w: unknown source tag %q", ErrInvalidID, prefix)
	}
	return tag, UnsanitizeKey(rest), nil
}
