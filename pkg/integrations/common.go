package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/badtechnologies/bpm/pkg/cache"
)

const httpTimeout = 10 * time.Second

// Sentinel errors shared by all clients. They alias the cache package's
// sentinels so retry classification and errors.Is agree across packages.
var (
	// ErrNotFound is returned when a package or resource doesn't exist.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = cache.ErrNetwork
)

// NewHTTPClient creates an HTTP client with a standard timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizeID converts a package id to its canonical lookup form.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// URLEncode percent-encodes a string for use in a query string.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEscape percent-encodes a single URL path segment.
func PathEscape(s string) string { return url.PathEscape(s) }
