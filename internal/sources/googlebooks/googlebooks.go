// Package googlebooks maps the Google Books volumes API onto catalog.Book.
// Pagination is index based (startIndex).
package googlebooks

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
	// DefaultBaseURL is the public volumes API root.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// maxResultsCap is the largest maxResults the API accepts.
	maxResultsCap = 40
)

// Client implements catalog.Source for Google Books.
type Client struct {
	api    *sources.Client
	apiKey string
}

// Compile-time check that Client implements catalog.Source.
var _ catalog.Source = (*Client)(nil)

// New creates a Google Books client. apiKey is optional; without it the
// API applies anonymous quotas.
func New(apiKey string, opts ...sources.Option) *Client {
	return &Client{
		api:    sources.NewClient("Google Books", DefaultBaseURL, opts...),
		apiKey: apiKey,
	}
}

func (c *Client) Tag() catalog.Tag { return catalog.TagGoogleBooks }

func (c *Client) Name() string { return catalog.TagGoogleBooks.SourceName() }

// Enabled is always true; the key only raises quotas.
func (c *Client) Enabled() bool { return true }

// Search queries /volumes with startIndex = offset.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) ([]catalog.Book, error) {
	if limit > maxResultsCap {
		limit = maxResultsCap
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("startIndex", strconv.Itoa(max(offset, 0)))
	params.Set("orderBy", "relevance")
	params.Set("printType", "books")
	c.addKey(params)

	var resp volumesResponse
	if err := c.api.GetJSON(ctx, c.api.Endpoint("/volumes", params), &resp); err != nil {
		return nil, err
	}

	books := make([]catalog.Book, 0, len(resp.Items))
	for _, v := range resp.Items {
		if b, ok := toBook(v); ok {
			books = append(books, b)
		}
	}
	return books, nil
}

// FetchByID loads a single volume.
func (c *Client) FetchByID(ctx context.Context, volumeID string) (*catalog.Book, error) {
	volumeID = strings.TrimSpace(volumeID)
	if volumeID == "" {
		return nil, catalog.ErrNotFound
	}
	params := url.Values{}
	c.addKey(params)

	var v volume
	if err := c.api.GetJSON(ctx, c.api.Endpoint("/volumes/"+url.PathEscape(volumeID), params), &v); err != nil {
		if sources.IsNotFound(err) {
			return nil, fmt.Errorf("%w: volume %s", catalog.ErrNotFound, volumeID)
		}
		return nil, err
	}

	b, ok := toBook(v)
	if !ok {
		return nil, fmt.Errorf("%w: volume %s lacks title or author", catalog.ErrNotFound, volumeID)
	}
	return &b, nil
}

func (c *Client) addKey(params url.Values) {
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
}
