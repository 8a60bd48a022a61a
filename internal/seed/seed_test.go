package seed

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lepinkainen/libris/internal/catalog"
)

func TestBooksAreValidBackupRecords(t *testing.T) {
	books, err := Books()
	assert.NoError(t, err)
	assert.True(t, len(books) > 0)

	seen := map[string]bool{}
	for _, b := range books {
		assert.True(t, strings.HasPrefix(b.ID, "backup-"), b.ID)
		assert.Equal(t, "Backup", b.Source)
		assert.NoError(t, catalog.Validate(b))
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true

		tag, _, err := catalog.ParseID(b.ID)
		assert.NoError(t, err)
		assert.Equal(t, catalog.TagBackup, tag)
	}
}

func TestBooksReturnsCopy(t *testing.T) {
	first, err := Books()
	assert.NoError(t, err)
	first[0].Title = "changed"

	second, err := Books()
	assert.NoError(t, err)
	assert.NotEqual(t, "changed", second[0].Title)
}

func TestParseRejectsInvalidBooks(t *testing.T) {
	_, err := parse([]byte("- id: backup-x\n  title: Only a title\n"))
	assert.Error(t, err)

	_, err = parse([]byte("not: [a list"))
	assert.Error(t, err)
}

func TestParseDefaultsYear(t *testing.T) {
	books, err := parse([]byte("- id: backup-x\n  title: T\n  author: A\n"))
	assert.NoError(t, err)
	assert.Equal(t, catalog.UnknownYear, books[0].Year)
}
