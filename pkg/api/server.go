package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/badtechnologies/bpm/pkg/cache"
	"github.com/badtechnologies/bpm/pkg/catalog"
	"github.com/badtechnologies/bpm/pkg/portal"
)

const (
	defaultSearchTTL = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Catalog  *catalog.Catalog
	Cache    cache.Cache   // search result cache; nil disables caching
	Keyer    cache.Keyer   // nil uses cache.DefaultKeyer
	CacheTTL time.Duration // 0 uses 30s
	Logger   *log.Logger
	Pretty   bool // indent rendered HTML
}

// Server is the packages API.
type Server struct {
	catalog  *catalog.Catalog
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	logger   *log.Logger
	renderer *portal.Renderer
	router   chi.Router
}

// New creates a Server. opts.Catalog is required.
func New(opts Options) *Server {
	s := &Server{
		catalog:  opts.Catalog,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.CacheTTL,
		logger:   opts.Logger,
		renderer: portal.NewRenderer(portal.WithPretty(opts.Pretty)),
	}
	if s.catalog == nil {
		s.catalog = catalog.New(nil)
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if s.ttl == 0 {
		s.ttl = defaultSearchTTL
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route(portal.BasePath, func(r chi.Router) {
		r.Get("/", s.searchPackages)
		r.Get("/{id}", s.getPackage)
	})
	r.Get("/packages", s.page)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
