// Package openlibrary maps the Open Library search and works APIs onto
// catalog.Book. Search pagination is page-number based.
package openlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/sources"
)

const (
	// DefaultBaseURL is the Open Library API root.
	DefaultBaseURL = "https://openlibrary.org"
	// DefaultCoversURL is the cover image root.
	DefaultCoversURL = "https://covers.openlibrary.org"

	worksPrefix = "/works/"
)

// Cover sizes used by the cover image API.
const (
	CoverMedium = "M"
	CoverLarge  = "L"
)

// Client implements catalog.Source and catalog.FallbackSearcher.
type Client struct {
	api       *sources.Client
	coversURL string
}

var (
	_ catalog.Source           = (*Client)(nil)
	_ catalog.FallbackSearcher = (*Client)(nil)
)

// New creates an Open Library client. An empty coversURL uses the public
// cover host.
func New(coversURL string, opts ...sources.Option) *Client {
	if coversURL == "" {
		coversURL = DefaultCoversURL
	}
	return &Client{
		api:       sources.NewClient("Open Library", DefaultBaseURL, opts...),
		coversURL: strings.TrimSuffix(coversURL, "/"),
	}
}

func (c *Client) Tag() catalog.Tag { return catalog.TagOpenLibrary }

func (c *Client) Name() string { return catalog.TagOpenLibrary.SourceName() }

func (c *Client) Enabled() bool { return true }

// Search queries search.json. The offset is converted to a page number.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) ([]catalog.Book, error) {
	docs, err := c.search(ctx, query, limit, sources.PageFor(offset, limit))
	if err != nil {
		return nil, err
	}

	books := make([]catalog.Book, 0, len(docs))
	for _, d := range docs {
		if b, ok := c.docToBook(d, CoverMedium, c.Name()); ok {
			books = append(books, b)
		}
	}
	return books, nil
}

// FetchByID loads a work when the key looks like a work key ("/works/OL…W"
// or "OL…"). Other keys are not directly fetchable and report ErrNotFound so
// the caller can fall back to FallbackSearch.
func (c *Client) FetchByID(ctx context.Context, nativeKey string) (*catalog.Book, error) {
	workKey, ok := workKeyOf(nativeKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a work key", catalog.ErrNotFound, nativeKey)
	}

	var w work
	if err := c.api.GetJSON(ctx, c.api.Endpoint(worksPrefix+url.PathEscape(workKey)+".json", nil), &w); err != nil {
		if sources.IsNotFound(err) {
			return nil, fmt.Errorf("%w: work %s", catalog.ErrNotFound, workKey)
		}
		return nil, err
	}

	author := c.workAuthor(ctx, w)
	b, ok := c.workToBook(nativeKey, w, author)
	if !ok {
		return nil, fmt.Errorf("%w: work %s lacks title or author", catalog.ErrNotFound, workKey)
	}
	return &b, nil
}

// FallbackSearch runs a keyword search on the key with hyphens read as
// spaces and returns the top hit, tagged as a search-derived record.
func (c *Client) FallbackSearch(ctx context.Context, nativeKey string) (*catalog.Book, error) {
	query := strings.Join(strings.Fields(strings.ReplaceAll(nativeKey, "-", " ")), " ")
	if query == "" {
		return nil, catalog.ErrNotFound
	}

	docs, err := c.search(ctx, query, 1, 1)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if b, ok := c.docToBook(d, CoverLarge, catalog.TagOpenLibrary.SearchSourceName()); ok {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: no search match for %q", catalog.ErrNotFound, query)
}

// CoverURL returns the cover image URL for a cover id and size.
func (c *Client) CoverURL(coverID int, size string) *string {
	if coverID <= 0 {
		return nil
	}
	return catalog.SecureURL(fmt.Sprintf("%s/b/id/%d-%s.jpg", c.coversURL, coverID, size))
}

func (c *Client) search(ctx context.Context, query string, limit, page int) ([]doc, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.api.GetJSON(ctx, c.api.Endpoint("/search.json", params), &resp); err != nil {
		return nil, err
	}
	return resp.Docs, nil
}

// workAuthor resolves the first author's name. Work records usually carry
// only an author key, which costs one more request.
func (c *Client) workAuthor(ctx context.Context, w work) string {
	for _, a := range w.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			return name
		}
		key := a.Author.Key
		if key == "" {
			continue
		}
		var rec authorRecord
		if err := c.api.GetJSON(ctx, c.api.Endpoint(key+".json", nil), &rec); err != nil {
			continue
		}
		if name := catalog.FirstNonEmpty(rec.Name, rec.PersonalName); name != "" {
			return name
		}
	}
	return ""
}

// workKeyOf strips the "/works/" prefix from canonical keys.
func workKeyOf(key string) (string, bool) {
	key = strings.TrimSpace(key)
	switch {
	case strings.HasPrefix(key, worksPrefix):
		k := strings.TrimPrefix(key, worksPrefix)
		return k, k != ""
	case strings.HasPrefix(key, "OL"):
		return key, true
	default:
		return "", false
	}
}
