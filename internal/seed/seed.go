// Package seed provides the static list of books shown when no catalog
// source can be reached.
package seed

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/libris/internal/catalog"
)

//go:embed books.yaml
var booksYAML []byte

var (
	loadOnce sync.Once
	loaded   []catalog.Book
	loadErr  error
)

// Books returns a copy of the backup list. Every record carries the Backup
// source and a "backup-" id.
func Books() ([]catalog.Book, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(booksYAML)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]catalog.Book, len(loaded))
	copy(out, loaded)
	return out, nil
}

func parse(data []byte) ([]catalog.Book, error) {
	var books []catalog.Book
	if err := yaml.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to parse backup list: %w", err)
	}
	for i := range books {
		b := &books[i]
		b.Source = catalog.TagBackup.SourceName()
		if b.Year == "" {
			b.Year = catalog.UnknownYear
		}
		if err := catalog.Validate(*b); err != nil {
			return nil, fmt.Errorf("backup book %d: %w", i, err)
		}
	}
	return books, nil
}
