package catalog

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestComposeParseRoundTrip(t *testing.T) {
	keys := []string{
		"B1gvAQAAQBAJ",
		"/works/OL893415W",
		"Some-Title_with spaces",
		"50%-off/a?b#c",
		"1700000000000",
	}
	for _, key := range keys {
		id := ComposeID(TagOpenLibrary, key)
		tag, got, err := ParseID(id)
		assert.NoError(t, err)
		assert.Equal(t, TagOpenLibrary, tag)
		assert.Equal(t, key, got)
	}
}

func TestComposeIDIsSingleSegment(t *testing.T) {
	id := ComposeID(TagOpenLibrary, "/works/OL1W")
	assert.Equal(t, "openlib-%2Fworks%2FOL1W", id)
	assert.NotContains(t, id, "/")
}

func TestParseIDErrors(t *testing.T) {
	for _, id := range []string{"", "google", "-abc", "google-", "nosuch-123"} {
		_, _, err := ParseID(id)
		assert.True(t, errors.Is(err, ErrInvalidID), "id %q", id)
	}
}

func TestParseIDKeepsHyphensInKey(t *testing.T) {
	tag, key, err := ParseID("isbndb-No-ISBN-Here")
	assert.NoError(t, err)
	assert.Equal(t, TagISBNdb, tag)
	assert.Equal(t, "No-ISBN-Here", key)
}

func TestUnsanitizeKeyInvalidEscape(t *testing.T) {
	assert.Equal(t, "100%", UnsanitizeKey("100%"))
}

func TestSourceNames(t *testing.T) {
	assert.Equal(t, "Open Library", TagOpenLibrary.SourceName())
	assert.Equal(t, "Open Library (search)", TagOpenLibrary.SearchSourceName())
	assert.Equal(t, "ISBNdb (limited information)", TagISBNdb.LimitedSourceName())
	assert.False(t, Tag("nope").Known())

	assert.True(t, IsKnownSource("Google Books"))
	assert.True(t, IsKnownSource("Backup"))
	assert.True(t, IsKnownSource("Open Library (search)"))
	assert.False(t, IsKnownSource("Open Library (search"))
	assert.False(t, IsKnownSource("Goodreads"))
	assert.False(t, IsKnownSource(""))
}
