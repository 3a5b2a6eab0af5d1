package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/errors"
)

// fetchConcurrency bounds parallel manifest fetches in LoadRemote.
const fetchConcurrency = 8

// Loader produces a full catalog snapshot.
type Loader func(ctx context.Context) ([]bpl.Package, error)

type seedFile struct {
	Packages []bpl.Package `toml:"package"`
}

// LoadFile reads a TOML seed file of [[package]] tables:
//
//	[[package]]
//	id = "hello"
//	name = "Hello World"
//	version = "1.0.0"
//	author = "badtechnologies"
//	bin = "hello"
//	requires = ["libbad"]
func LoadFile(path string) ([]bpl.Package, error) {
	var seed seedFile
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse catalog %s", path)
	}
	for i := range seed.Packages {
		if err := seed.Packages[i].Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "catalog %s: entry %d", path, i+1)
		}
	}
	return seed.Packages, nil
}

// Library is the subset of the package library client used by LoadRemote.
type Library interface {
	ListPackages(ctx context.Context, refresh bool) ([]string, error)
	FetchPackage(ctx context.Context, id string, refresh bool) (*bpl.Package, error)
}

// LoadRemote lists the library and fetches every manifest. Packages whose
// manifest cannot be fetched are logged and left out; only a failed
// listing (or cancellation) is an error.
func LoadRemote(ctx context.Context, lib Library, refresh bool, logger *log.Logger) ([]bpl.Package, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ids, err := lib.ListPackages(ctx, refresh)
	if err != nil {
		return nil, err
	}

	results := make([]*bpl.Package, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := lib.FetchPackage(gctx, id, refresh)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("skipping package", "id", id, "err", err)
				return nil
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pkgs := make([]bpl.Package, 0, len(results))
	for _, p := range results {
		if p != nil {
			pkgs = append(pkgs, *p)
		}
	}
	return pkgs, nil
}

// Refresh runs load and replaces the catalog contents on success.
// On failure the previous snapshot stays in place.
func (c *Catalog) Refresh(ctx context.Context, load Loader) error {
	pkgs, err := load(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	c.Replace(pkgs)
	return nil
}

// Watch refreshes the catalog every interval until ctx is done.
func (c *Catalog) Watch(ctx context.Context, interval time.Duration, load Loader, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx, load); err != nil {
				logger.Warn("catalog refresh failed", "err", err)
				continue
			}
			logger.Debug("catalog refreshed", "packages", c.Len())
		}
	}
}
