// Package sources holds the HTTP plumbing shared by the catalog source
// clients: rate limiting, credential headers, status handling and the
// optional SQLite response cache.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/libris/internal/cache"
	"github.com/lepinkainen/libris/internal/errors"
	"github.com/lepinkainen/libris/internal/ratelimit"
)

const (
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	userAgent    = "libris/1.0 (+https://github.com/lepinkainen/libris)"
	maxBodyBytes = 4 << 20
	maxErrorBody = 512
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client performs JSON GET requests against one upstream.
type Client struct {
	name       string
	baseURL    string
	httpClient HTTPDoer
	limiter    *ratelimit.Limiter
	cache      *cache.CacheDB
	cacheTable string
	headers    http.Header
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// NewClient creates a client for the upstream called name.
func NewClient(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    ratelimit.Unlimited(name),
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithBaseURL overrides the upstream base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter sets the limiter every request waits on.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// WithCache stores successful response bodies in table of db.
func WithCache(db *cache.CacheDB, table string) Option {
	return func(c *Client) {
		c.cache = db
		c.cacheTable = table
	}
}

// WithHeader adds a header to every request. Empty values are ignored.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if value != "" {
			c.headers.Set(key, value)
		}
	}
}

// Name returns the upstream name used in errors and logs.
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint joins path and the encoded query onto the base URL.
func (c *Client) Endpoint(path string, query url.Values) string {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// GetJSON fetches endpoint and decodes the body into target.
func (c *Client) GetJSON(ctx context.Context, endpoint string, target any) error {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decoding %s response: %w", c.name, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.cache == nil {
		return c.fetch(ctx, endpoint)
	}
	body, _, err := cache.GetOrFetch(c.cache, c.cacheTable, cacheKey(endpoint), func() (string, error) {
		raw, err := c.fetch(ctx, endpoint)
		return string(raw), err
	})
	return []byte(body), err
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if !c.limiter.Allow() {
		slog.Debug("Rate limit reached, waiting", "source", c.name, "limiter", c.limiter.Name())
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.NewRateLimitErrorWithRetry(c.name, "rate limit exceeded", retryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.NewUpstreamError(c.name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", c.name, err)
	}
	return body, nil
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	return errors.StatusCode(err) == http.StatusNotFound
}

// retryAfter parses the delay-seconds form of Retry-After.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// cacheKey drops the API key query parameter so credentials never end up
// in the cache database.
func cacheKey(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	if !q.Has("key") {
		return endpoint
	}
	q.Del("key")
	u.RawQuery = q.Encode()
	return u.String()
}
