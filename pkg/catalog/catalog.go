// Package catalog is the searchable package index behind /api/packages.
//
// A [Catalog] holds an immutable, id-sorted snapshot of a package library.
// Snapshots come from a TOML seed file ([LoadFile]) or from the library
// itself ([LoadRemote]) and are swapped atomically by [Catalog.Replace],
// so searches never observe a half-loaded index.
package catalog

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/badtechnologies/bpm/pkg/bpl"
)

// Catalog is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	pkgs     []bpl.Package
	byID     map[string]int
	loadedAt time.Time
}

// New creates a catalog holding pkgs.
func New(pkgs []bpl.Package) *Catalog {
	c := &Catalog{}
	c.Replace(pkgs)
	return c
}

// Replace swaps the catalog contents. Duplicate ids keep the last entry.
func (c *Catalog) Replace(pkgs []bpl.Package) {
	byID := make(map[string]int, len(pkgs))
	snapshot := make([]bpl.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if i, ok := byID[p.ID]; ok {
			snapshot[i] = p
			continue
		}
		byID[p.ID] = len(snapshot)
		snapshot = append(snapshot, p)
	}
	slices.SortFunc(snapshot, func(a, b bpl.Package) int { return cmp.Compare(a.ID, b.ID) })
	for i, p := range snapshot {
		byID[p.ID] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pkgs = snapshot
	c.byID = byID
	c.loadedAt = time.Now()
}

// Len returns the number of packages.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pkgs)
}

// LoadedAt returns when the current snapshot was installed.
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Get returns the package with the given id.
func (c *Catalog) Get(id string) (bpl.Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return bpl.Package{}, false
	}
	return c.pkgs[i], true
}

// Search returns packages whose id, name or author contains query,
// case-insensitively, in catalog order. The empty query matches all.
// The result is never nil.
func (c *Catalog) Search(query string) []bpl.Package {
	q := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]bpl.Package, 0, len(c.pkgs))
	for _, p := range c.pkgs {
		if q == "" || matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p bpl.Package, q string) bool {
	for _, field := range []string{p.ID, p.Name, p.Author} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
