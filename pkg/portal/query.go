package portal

import (
	"net/url"
)

const (
	// BasePath is the packages API endpoint.
	BasePath = "/api/packages"

	// SearchParam carries the search term in the page URL.
	SearchParam = "q"

	// QueryParam carries the search term in the API request.
	QueryParam = "query"
)

// QueryFromURL returns the search term of a page URL, or "" when absent.
func QueryFromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	return QueryFromValues(u.Query())
}

// QueryFromValues returns the "q" parameter of parsed URL values.
func QueryFromValues(v url.Values) string {
	return v.Get(SearchParam)
}

// RequestPath returns the API path for query: BasePath alone for the empty
// query, otherwise BasePath?query=<query> with the value percent-encoded.
func RequestPath(query string) string {
	if query == "" {
		return BasePath
	}
	v := url.Values{}
	v.Set(QueryParam, query)
	return BasePath + "?" + v.Encode()
}

// QueryFromRequestPath is the inverse of RequestPath.
func QueryFromRequestPath(path string) (string, error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return u.Query().Get(QueryParam), nil
}
