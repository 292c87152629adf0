package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/pomedit/pkg/cache"
	"github.com/matzehuels/pomedit/pkg/observability"
)

// Client provides the HTTP plumbing shared by repository clients: response
// caching, retries, and default request headers.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
	backoff   *cache.Backoff
}

// NewClient creates a Client storing responses in c under namespace with
// the given ttl. A nil c disables caching. headers are sent with every
// request and may be nil.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		keyer:     cache.NewDefaultKeyer(),
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
	}
}

// WithKeyer replaces the key builder, typically with a [cache.ScopedKeyer].
func (c *Client) WithKeyer(k cache.Keyer) *Client {
	if k != nil {
		c.keyer = k
	}
	return c
}

// WithBackoff replaces the retry policy, [cache.DefaultBackoff] by default.
func (c *Client) WithBackoff(b cache.Backoff) *Client {
	c.backoff = &b
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

// Cached returns the cached value for key in v, or runs fetch (with
// retries) and caches the populated v. refresh skips the lookup.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	k := c.keyer.HTTPKey(c.namespace, key)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, k); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				observability.Cache().OnCacheHit(ctx, "http")
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	if err := c.retry(ctx, fetch); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if c.cache.Set(ctx, k, data, c.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(data))
	}
	return nil
}

func (c *Client) retry(ctx context.Context, fn func() error) error {
	if c.backoff == nil {
		return cache.RetryWithBackoff(ctx, fn)
	}
	return cache.Retry(ctx, *c.backoff, fn)
}

// Get performs a GET and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders is Get with extra headers; they override the defaults.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs a GET and returns the body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	data, err := c.GetBytes(ctx, url)
	return string(data), err
}

// GetBytes performs a GET and returns the raw body. Used for XML
// endpoints such as maven-metadata.xml.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
