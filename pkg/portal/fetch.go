package portal

import (
	"context"
	"strings"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/errors"
	"github.com/badtechnologies/bpm/pkg/integrations"
)

// Fetcher retrieves the package list for an API request path such as
// "/api/packages?query=hello".
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]bpl.Package, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, path string) ([]bpl.Package, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]bpl.Package, error) {
	return f(ctx, path)
}

// HTTPFetcher fetches from a packages API over HTTP. Any transport error,
// non-200 status or body that is not a JSON array of packages is reported
// as FETCH_FAILED.
type HTTPFetcher struct {
	BaseURL string
	client  *integrations.Client
}

// NewHTTPFetcher creates a fetcher for the API served at baseURL
// (e.g. "http://localhost:8080").
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		client:  integrations.NewClient(nil, "portal", 0, map[string]string{"Accept": "application/json"}),
	}
}

// Client exposes the underlying HTTP client wrapper.
func (f *HTTPFetcher) Client() *integrations.Client { return f.client }

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]bpl.Package, error) {
	var pkgs []bpl.Package
	if err := f.client.Get(ctx, f.BaseURL+path, &pkgs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch %s", path)
	}
	if pkgs == nil {
		// a literal null body
		pkgs = []bpl.Package{}
	}
	return pkgs, nil
}
