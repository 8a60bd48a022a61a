// Package isbndb maps the ISBNdb v2 API onto catalog.Book. The API needs a
// key sent in the Authorization header; without one the source reports
// itself disabled.
package isbndb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lepinkainen/libris/internal/catalog"
	"github.com/lepinkainen/libris/internal/sources"
)

// DefaultBaseURL is the ISBNdb v2 API root.
const DefaultBaseURL = "https://api2.isbndb.com"

// Client implements catalog.Source and catalog.FallbackSearcher.
type Client struct {
	api    *sources.Client
	apiKey string
}

var (
	_ catalog.Source           = (*Client)(nil)
	_ catalog.FallbackSearcher = (*Client)(nil)
)

// New creates an ISBNdb client. An empty apiKey leaves the client disabled.
func New(apiKey string, opts ...sources.Option) *Client {
	apiKey = strings.TrimSpace(apiKey)
	opts = append([]sources.Option{sources.WithHeader("Authorization", apiKey)}, opts...)
	return &Client{
		api:    sources.NewClient("ISBNdb", DefaultBaseURL, opts...),
		apiKey: apiKey,
	}
}

func (c *Client) Tag() catalog.Tag { return catalog.TagISBNdb }

func (c *Client) Name() string { return catalog.TagISBNdb.SourceName() }

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// Search queries /books/{query}. The offset is converted to a page number.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) ([]catalog.Book, error) {
	if !c.Enabled() {
		return nil, catalog.ErrSourceDisabled
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(sources.PageFor(offset, limit)))
	params.Set("pageSize", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.api.GetJSON(ctx, c.api.Endpoint("/books/"+url.PathEscape(query), params), &resp); err != nil {
		if sources.IsNotFound(err) {
			// ISBNdb answers 404 for a query without matches.
			return []catalog.Book{}, nil
		}
		return nil, err
	}

	books := make([]catalog.Book, 0, len(resp.Books))
	for _, r := range resp.Books {
		if b, ok := toBook(r, c.Name()); ok {
			books = append(books, b)
		}
	}
	return books, nil
}

// FetchByID loads /book/{isbn}. Ids derived from a title slug are not ISBNs
// and report ErrNotFound without a request.
func (c *Client) FetchByID(ctx context.Context, nativeKey string) (*catalog.Book, error) {
	if !c.Enabled() {
		return nil, catalog.ErrSourceDisabled
	}
	isbn := sources.NormalizeISBN(nativeKey)
	if !looksLikeISBN(isbn) {
		return nil, fmt.Errorf("%w: %q is not an ISBN", catalog.ErrNotFound, nativeKey)
	}

	var resp bookResponse
	if err := c.api.GetJSON(ctx, c.api.Endpoint("/book/"+isbn, nil), &resp); err != nil {
		if sources.IsNotFound(err) {
			return nil, fmt.Errorf("%w: isbn %s", catalog.ErrNotFound, isbn)
		}
		return nil, err
	}

	b, ok := toBook(resp.Book, c.Name())
	if !ok {
		return nil, fmt.Errorf("%w: isbn %s lacks title or author", catalog.ErrNotFound, isbn)
	}
	return &b, nil
}

// FallbackSearch runs a keyword search on a slug key and returns the top hit.
func (c *Client) FallbackSearch(ctx context.Context, nativeKey string) (*catalog.Book, error) {
	query := strings.Join(strings.Fields(strings.ReplaceAll(nativeKey, "-", " ")), " ")
	if query == "" {
		return nil, catalog.ErrNotFound
	}
	books, err := c.Search(ctx, query, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, fmt.Errorf("%w: no search match for %q", catalog.ErrNotFound, query)
	}
	b := books[0]
	b.Source = catalog.TagISBNdb.SearchSourceName()
	return &b, nil
}

func looksLikeISBN(s string) bool {
	if len(s) != 10 && len(s) != 13 {
		return false
	}
	for i, r := range s {
		if r >= '0' && r <= '9' {
			continue
		}
		if (r == 'X' || r == 'x') && i == len(s)-1 {
			continue
		}
		return false
	}
	return true
}
