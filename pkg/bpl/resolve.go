package bpl

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// Source fetches package manifests by id.
type Source interface {
	FetchPackage(ctx context.Context, id string) (*Package, error)
}

// Failure records a package that could not be fetched.
type Failure struct {
	ID  string
	Err error
}

// Resolution is the outcome of [Resolver.Resolve].
type Resolution struct {
	// Packages in discovery order: requested ids first, then each
	// dependency level in turn.
	Packages []*Package
	Failures []Failure
}

// IDs returns the ids of the resolved packages in order.
func (r *Resolution) IDs() []string {
	ids := make([]string, len(r.Packages))
	for i, p := range r.Packages {
		ids[i] = p.ID
	}
	return ids
}

// Resolver discovers packages and their transitive requirements.
type Resolver struct {
	src    Source
	logger *log.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(src Source, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{src: src, logger: logger}
}

// Resolve fetches ids and everything they require, breadth first.
// Each id is fetched at most once, so dependency cycles terminate.
// The only error returned is the context's.
func (r *Resolver) Resolve(ctx context.Context, ids []string) (*Resolution, error) {
	res := &Resolution{}
	seen := make(map[string]bool)

	level := ids
	for len(level) > 0 {
		var next []string
		for _, id := range level {
			if seen[id] {
				continue
			}
			seen[id] = true

			pkg, err := r.src.FetchPackage(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				r.logger.Warn("package unavailable", "id", id, "err", err)
				res.Failures = append(res.Failures, Failure{ID: id, Err: err})
				continue
			}
			r.logger.Info("found package", "id", id, "name", pkg.Name, "version", pkg.Version)
			res.Packages = append(res.Packages, pkg)
			next = append(next, pkg.Requires...)
		}
		level = next
	}
	return res, nil
}
