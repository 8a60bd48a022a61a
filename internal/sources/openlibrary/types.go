package openlibrary

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/sources"
)

// searchResponse matches search.json.
type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

type doc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	CoverI              int      `json:"cover_i"`
	Subject             []string `json:"subject"`
	ISBN                []string `json:"isbn"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	RatingsAverage      float64  `json:"ratings_average"`
	Language            []string `json:"language"`
}

// work matches /works/{key}.json.
type work struct {
	Key              string      `json:"key"`
	Title            string      `json:"title"`
	Description      description `json:"description"`
	Covers           []int       `json:"covers"`
	Subjects         []string    `json:"subjects"`
	FirstPublishDate string      `json:"first_publish_date"`
	Authors          []struct {
		Name   string `json:"name"`
		Author struct {
			Key string `json:"key"`
		} `json:"author"`
	} `json:"authors"`
}

type authorRecord struct {
	Name         string `json:"name"`
	PersonalName string `json:"personal_name"`
}

// description is either a plain string or {"type": ..., "value": ...}.
type description string

func (d *description) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = description(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*d = description(obj.Value)
	return nil
}

// nativeKey is the work key, else the cover id, else the slugified title.
func (d doc) nativeKey() string {
	switch {
	case d.Key != "":
		return d.Key
	case d.CoverI > 0:
		return strconv.Itoa(d.CoverI)
	default:
		return catalog.Slugify(d.Title)
	}
}

func (c *Client) docToBook(d doc, coverSize, sourceName string) (catalog.Book, bool) {
	title := strings.TrimSpace(d.Title)
	author := sources.FirstAuthor(d.AuthorName)
	if title == "" || author == "" {
		return catalog.Book{}, false
	}

	return catalog.Book{
		ID:           catalog.ComposeID(catalog.TagOpenLibrary, d.nativeKey()),
		Title:        title,
		Author:       author,
		Year:         sources.YearFromInt(d.FirstPublishYear),
		Description:  strings.TrimSpace(d.Subtitle),
		ThumbnailURL: c.CoverURL(d.CoverI, coverSize),
		Genre:        sources.First(d.Subject),
		PageCount:    catalog.Positive(d.NumberOfPagesMedian),
		ISBN:         sources.First(d.ISBN),
		Rating:       catalog.Positive(d.RatingsAverage),
		Language:     sources.First(d.Language),
		Source:       sourceName,
	}, true
}

func (c *Client) workToBook(nativeKey string, w work, author string) (catalog.Book, bool) {
	title := strings.TrimSpace(w.Title)
	if title == "" || author == "" {
		return catalog.Book{}, false
	}

	var cover int
	if len(w.Covers) > 0 {
		cover = w.Covers[0]
	}

	return catalog.Book{
		ID:           catalog.ComposeID(catalog.TagOpenLibrary, nativeKey),
		Title:        title,
		Author:       author,
		Year:         sources.ParseYear(w.FirstPublishDate),
		Description:  strings.TrimSpace(string(w.Description)),
		ThumbnailURL: c.CoverURL(cover, CoverLarge),
		Genre:        sources.First(w.Subjects),
		Source:       catalog.TagOpenLibrary.SourceName(),
	}, true
}
