// Package integrations provides the shared HTTP client used by package
// library clients.
//
// [Client] wraps net/http with:
//   - default headers (User-Agent, Accept, Authorization)
//   - response caching through [cache.Cache], keyed per namespace
//   - retries with exponential backoff for network errors, 429 and 5xx
//
// Status codes map to sentinel errors: 404 is [ErrNotFound], everything
// else that is not 200 is [ErrNetwork] (retryable for 429 and 5xx).
//
// The bpl subpackage implements the client for a BadOS package library
// hosted on GitHub.
package integrations
