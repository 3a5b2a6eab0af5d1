package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/errors"
	"github.com/badtechnologies/bpm/pkg/integrations"
	"github.com/badtechnologies/bpm/pkg/portal"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) searchPackages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get(portal.QueryParam)
	pkgs, err := s.search(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkgs)
}

func (s *Server) getPackage(w http.ResponseWriter, r *http.Request) {
	id := integrations.NormalizeID(chi.URLParam(r, "id"))
	if err := errors.ValidatePackageID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	pkg, ok := s.catalog.Get(id)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodePackageNotFound, "%s: does not exist or could not be found", id))
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// page renders the portal against this server's own search, without a
// network round trip.
func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	logger := s.loggerFrom(r.Context())
	p := portal.NewPage(portal.FetcherFunc(s.fetch), portal.QueryFromURL(r.URL), portal.WithLogger(logger))
	p.Mount(r.Context())
	defer p.Unmount()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p.Status().Phase == portal.Failed {
		w.WriteHeader(errors.HTTPStatus(p.Status().Err))
	}
	if err := s.renderer.Render(w, p.View()); err != nil {
		logger.Error("render page", "err", err)
	}
}

func (s *Server) fetch(ctx context.Context, path string) ([]bpl.Package, error) {
	q, err := portal.QueryFromRequestPath(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad request path %q", path)
	}
	return s.search(ctx, q)
}

// search runs a catalog search through the result cache. The key includes
// the catalog load time so a refresh invalidates earlier results.
func (s *Server) search(ctx context.Context, query string) ([]bpl.Package, error) {
	if err := errors.ValidateQuery(query); err != nil {
		return nil, err
	}
	norm := strings.ToLower(strings.TrimSpace(query))
	key := s.keyer.SearchKey(strconv.FormatInt(s.catalog.LoadedAt().UnixNano(), 10) + ":" + norm)

	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var pkgs []bpl.Package
		if json.Unmarshal(data, &pkgs) == nil && pkgs != nil {
			return pkgs, nil
		}
	}

	pkgs := s.catalog.Search(norm)
	if data, err := json.Marshal(pkgs); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.loggerFrom(ctx).Warn("cache search result", "err", err)
		}
	}
	return pkgs, nil
}

type errorBody struct {
	Code  errors.Code `json:"code,omitempty"`
	Error string      `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.loggerFrom(r.Context()).Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Code: errors.GetCode(err), Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
