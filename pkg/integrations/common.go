package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when an artifact or resource does not exist in
	// the repository.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected status codes).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the standard registry timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// URLEncode percent-encodes s for use in a query string.
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes s for use as a single path segment.
func PathEscape(s string) string { return url.PathEscape(s) }
