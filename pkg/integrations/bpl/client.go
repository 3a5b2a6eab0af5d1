package bpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	libbpl "github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/cache"
	bpmerrors "github.com/badtechnologies/bpm/pkg/errors"
	"github.com/badtechnologies/bpm/pkg/integrations"
)

const defaultAPIURL = "https://api.github.com"

// Options configures a [Client].
type Options struct {
	Repo     string        // "owner/repo/branch"; empty means the official library
	Token    string        // optional GitHub token
	Cache    cache.Cache   // nil disables caching
	CacheTTL time.Duration // TTL of cached manifests and listings
	RawURL   string        // raw file host, for tests
	APIURL   string        // GitHub API host, for tests
}

// Client fetches manifests, binaries and the package index of one library.
type Client struct {
	*integrations.Client
	repo   libbpl.Repo
	rawURL string
	apiURL string
}

// NewClient creates a client for opts.Repo.
func NewClient(opts Options) (*Client, error) {
	repo, err := libbpl.ParseRepo(opts.Repo)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if opts.Token != "" {
		headers["Authorization"] = "Bearer " + opts.Token
	}

	c := &Client{
		Client: integrations.NewClient(opts.Cache, "bpl:"+repo.String(), opts.CacheTTL, headers),
		repo:   repo,
		rawURL: opts.RawURL,
		apiURL: opts.APIURL,
	}
	if c.rawURL == "" {
		c.rawURL = libbpl.RawBaseURL
	}
	if c.apiURL == "" {
		c.apiURL = defaultAPIURL
	}
	return c, nil
}

// Repo returns the library this client reads from.
func (c *Client) Repo() libbpl.Repo { return c.repo }

// FetchPackage retrieves and validates the manifest of package id.
// A missing package yields an error coded PACKAGE_NOT_FOUND.
func (c *Client) FetchPackage(ctx context.Context, id string, refresh bool) (*libbpl.Package, error) {
	id = integrations.NormalizeID(id)
	if err := bpmerrors.ValidatePackageID(id); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	err := c.Cached(ctx, "manifest:"+id, refresh, &raw, func() error {
		return c.Get(ctx, c.repo.FileURL(c.rawURL, id, libbpl.ManifestFile), &raw)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, bpmerrors.Wrap(bpmerrors.ErrCodePackageNotFound, err, "%s: does not exist or could not be found", id)
		}
		return nil, bpmerrors.Wrap(bpmerrors.ErrCodeFetchFailed, err, "%s: something went wrong while fetching package data", id)
	}
	return libbpl.Decode(id, raw, c.repo)
}

// FetchBinary downloads the binary of pkg. Binaries are not cached.
func (c *Client) FetchBinary(ctx context.Context, pkg *libbpl.Package) ([]byte, error) {
	if pkg.Bin == "" {
		return nil, bpmerrors.New(bpmerrors.ErrCodeNotFound, "%s has no binary", pkg.ID)
	}
	url := c.repo.FileURL(c.rawURL, pkg.ID, pkg.Bin)

	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.GetBytes(ctx, url)
		return err
	})
	if err != nil {
		return nil, bpmerrors.Wrap(bpmerrors.ErrCodeFetchFailed, err, "could not access package binaries")
	}
	return data, nil
}

// ListPackages returns the ids of all packages in the library, sorted.
func (c *Client) ListPackages(ctx context.Context, refresh bool) ([]string, error) {
	var ids []string
	err := c.Cached(ctx, "index", refresh, &ids, func() error {
		var items []contentItem
		url := fmt.Sprintf("%s/repos/%s/%s/contents/lib?ref=%s",
			c.apiURL, integrations.PathEscape(c.repo.Owner), integrations.PathEscape(c.repo.Name),
			integrations.URLEncode(c.repo.Branch))
		if err := c.Get(ctx, url, &items); err != nil {
			return err
		}
		ids = ids[:0]
		for _, it := range items {
			if it.Type == "dir" && bpmerrors.ValidatePackageID(it.Name) == nil {
				ids = append(ids, it.Name)
			}
		}
		sort.Strings(ids)
		return nil
	})
	if err != nil {
		return nil, bpmerrors.Wrap(bpmerrors.ErrCodeFetchFailed, err, "list packages in %s", c.repo)
	}
	return ids, nil
}

// Source adapts the client to [libbpl.Source] with a fixed refresh policy.
func (c *Client) Source(refresh bool) libbpl.Source {
	return source{c: c, refresh: refresh}
}

type source struct {
	c       *Client
	refresh bool
}

func (s source) FetchPackage(ctx context.Context, id string) (*libbpl.Package, error) {
	return s.c.FetchPackage(ctx, id, s.refresh)
}

type contentItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}
