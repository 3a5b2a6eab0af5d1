package portal

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/observability"
)

// Phase is the fetch state of a page.
type Phase int

const (
	Idle Phase = iota
	Loading
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Status is the tagged fetch state. Packages holds the list of the most
// recent successful fetch; Err is set only in the Failed phase.
type Status struct {
	Phase    Phase
	Packages []bpl.Package
	Err      error
}

// Page is the package search page. It is safe for concurrent use.
type Page struct {
	fetcher Fetcher
	logger  *log.Logger

	mu      sync.Mutex
	query   string
	status  Status
	mounted bool
	gen     uint64 // bumped by every fetch start and by Unmount
	fetches int
}

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the diagnostic logger fetch failures are reported on.
func WithLogger(l *log.Logger) Option {
	return func(p *Page) { p.logger = l }
}

// NewPage creates an unmounted page for query.
func NewPage(f Fetcher, query string, opts ...Option) *Page {
	p := &Page{fetcher: f, query: query, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mount activates the page and fetches the package list for the current
// query. Mounting an already mounted page does nothing.
func (p *Page) Mount(ctx context.Context) {
	p.mu.Lock()
	if p.mounted {
		p.mu.Unlock()
		return
	}
	p.mounted = true
	p.mu.Unlock()

	p.load(ctx)
}

// SetQuery changes the search term. A mounted page refetches when the term
// differs from the current one; an unmounted page only records it.
func (p *Page) SetQuery(ctx context.Context, query string) {
	p.mu.Lock()
	if query == p.query {
		p.mu.Unlock()
		return
	}
	p.query = query
	mounted := p.mounted
	p.mu.Unlock()

	if mounted {
		p.load(ctx)
	}
}

// Unmount deactivates the page. Results of fetches still in flight are
// discarded.
func (p *Page) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = false
	p.gen++
	if p.status.Phase == Loading {
		p.status.Phase = Idle
	}
}

// Query returns the current search term.
func (p *Page) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Status returns a snapshot of the fetch state.
func (p *Page) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Fetches returns how many fetches the page has issued.
func (p *Page) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

func (p *Page) load(ctx context.Context) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	path := RequestPath(p.query)
	p.fetches++
	p.status = Status{Phase: Loading, Packages: p.status.Packages}
	p.mu.Unlock()

	hooks := observability.Page()
	hooks.OnFetchStart(ctx, path)
	start := time.Now()
	pkgs, err := p.fetcher.Fetch(ctx, path)
	hooks.OnFetchComplete(ctx, path, len(pkgs), time.Since(start), err)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		p.logger.Debug("discarding superseded fetch", "path", path)
		return
	}
	if err != nil {
		p.logger.Error("Error fetching packages", "path", path, "err", err)
		p.status = Status{Phase: Failed, Packages: p.status.Packages, Err: err}
		return
	}
	if pkgs == nil {
		pkgs = []bpl.Package{}
	}
	p.status = Status{Phase: Succeeded, Packages: pkgs}
}

// View is the render model of a page.
type View struct {
	Query    string
	Phase    Phase
	Packages []bpl.Package
	Err      error
}

// View returns the current render model.
func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return View{
		Query:    p.query,
		Phase:    p.status.Phase,
		Packages: p.status.Packages,
		Err:      p.status.Err,
	}
}

// Display messages.
const (
	MsgAllPackages = "All packages"
	MsgLoading     = "Loading packages..."
	MsgEmpty       = "No packages found"
	MsgFailed      = "Failed to load packages"
)

// Heading is the page title.
func (v View) Heading() string {
	if v.Query != "" {
		return `Search results for "` + v.Query + `"`
	}
	return MsgAllPackages
}

// Count is the "<N> packages found" line, or "" when there is no list to show.
func (v View) Count() string {
	if v.Phase != Succeeded || len(v.Packages) == 0 {
		return ""
	}
	return fmt.Sprintf("%d packages found", len(v.Packages))
}

// Message is the placeholder shown instead of a list, or "" when the list
// is shown.
func (v View) Message() string {
	switch v.Phase {
	case Succeeded:
		if len(v.Packages) == 0 {
			return MsgEmpty
		}
		return ""
	case Failed:
		return MsgFailed
	default:
		return MsgLoading
	}
}

// ShowList reports whether the package list is rendered.
func (v View) ShowList() bool {
	return v.Phase == Succeeded && len(v.Packages) > 0
}
