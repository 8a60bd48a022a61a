package isbndb

import (
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/sources"
)

// searchResponse matches /books/{query}.
type searchResponse struct {
	Total int          `json:"total"`
	Books []bookRecord `json:"books"`
}

// bookResponse matches /book/{isbn}.
type bookResponse struct {
	Book bookRecord `json:"book"`
}

type bookRecord struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	ISBN          string   `json:"isbn"`
	ISBN13        string   `json:"isbn13"`
	ISBN10        string   `json:"isbn10"`
	DatePublished string   `json:"date_published"`
	Synopsis      string   `json:"synopsis"`
	Synopsys      string   `json:"synopsys"`
	Overview      string   `json:"overview"`
	Image         string   `json:"image"`
	Subjects      []string `json:"subjects"`
	Language      string   `json:"language"`
	Pages         int      `json:"pages"`
}

// nativeKey is isbn13, else isbn10, else the title with whitespace runs
// replaced by hyphens.
func (r bookRecord) nativeKey() string {
	if isbn := catalog.FirstNonEmpty(r.ISBN13, r.ISBN10, r.ISBN); isbn != "" {
		return isbn
	}
	return catalog.Slugify(r.Title)
}

func toBook(r bookRecord, sourceName string) (catalog.Book, bool) {
	title := strings.TrimSpace(r.Title)
	author := sources.FirstAuthor(r.Authors)
	if title == "" || author == "" {
		return catalog.Book{}, false
	}

	return catalog.Book{
		ID:           catalog.ComposeID(catalog.TagISBNdb, r.nativeKey()),
		Title:        title,
		Author:       author,
		Year:         sources.ParseYear(r.DatePublished),
		Description:  catalog.FirstNonEmpty(r.Synopsis, r.Synopsys, r.Overview),
		ThumbnailURL: catalog.SecureURL(r.Image),
		Genre:        sources.First(r.Subjects),
		PageCount:    catalog.Positive(r.Pages),
		ISBN:         catalog.NonEmpty(catalog.FirstNonEmpty(r.ISBN13, r.ISBN10, r.ISBN)),
		Language:     catalog.NonEmpty(strings.TrimSpace(r.Language)),
		Source:       sourceName,
	}, true
}
