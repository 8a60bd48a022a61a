package googlebooks

import (
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/sources"
)

// volumesResponse matches the /volumes search response.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle"`
	Authors             []string             `json:"authors"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	AverageRating       float64              `json:"averageRating"`
	Language            string               `json:"language"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	ImageLinks          struct {
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// toBook maps a volume. Volumes without an id, title or author are rejected.
func toBook(v volume) (catalog.Book, bool) {
	info := v.VolumeInfo
	title := strings.TrimSpace(info.Title)
	author := sources.FirstAuthor(info.Authors)
	if v.ID == "" || title == "" || author == "" {
		return catalog.Book{}, false
	}

	return catalog.Book{
		ID:           catalog.ComposeID(catalog.TagGoogleBooks, v.ID),
		Title:        title,
		Author:       author,
		Year:         sources.ParseYear(info.PublishedDate),
		Description:  strings.TrimSpace(info.Description),
		ThumbnailURL: catalog.SecureURL(catalog.FirstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail)),
		Genre:        sources.First(info.Categories),
		PageCount:    catalog.Positive(info.PageCount),
		ISBN:         pickISBN(info.IndustryIdentifiers),
		Rating:       catalog.Positive(info.AverageRating),
		Language:     catalog.NonEmpty(info.Language),
		Source:       catalog.TagGoogleBooks.SourceName(),
	}, true
}

// pickISBN prefers ISBN_13, then ISBN_10, then whatever is listed first.
func pickISBN(ids []industryIdentifier) *string {
	for _, want := range []string{"ISBN_13", "ISBN_10"} {
		for _, id := range ids {
			if id.Type == want && id.Identifier != "" {
				return catalog.Ptr(id.Identifier)
			}
		}
	}
	if len(ids) > 0 {
		return catalog.NonEmpty(ids[0].Identifier)
	}
	return nil
}
