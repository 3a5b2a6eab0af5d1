package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/cache"
	"github.com/badtechnologies/bpm/pkg/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]bpl.Package{
		{ID: "hello", Name: "Hello", Version: "1.0", Author: "bad"},
		{ID: "libbad", Name: "libbad", Version: "0.2", Author: "badtechnologies"},
		{ID: "zsh", Name: "zsh", Version: "5.9", Author: "someone"},
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearchPackages(t *testing.T) {
	h := New(Options{Catalog: testCatalog()}).Handler()

	tests := []struct {
		target string
		want   []string
	}{
		{"/api/packages", []string{"hello", "libbad", "zsh"}},
		{"/api/packages?query=bad", []string{"hello", "libbad"}},
		{"/api/packages?query=LIB", []string{"libbad"}},
		{"/api/packages?query=nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if strings.TrimSpace(rec.Body.String()) == "null" {
				t.Fatal("body is null")
			}
			var pkgs []bpl.Package
			if err := json.Unmarshal(rec.Body.Bytes(), &pkgs); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(pkgs) != len(tt.want) {
				t.Fatalf("got %d packages, want %d", len(pkgs), len(tt.want))
			}
			for i, id := range tt.want {
				if pkgs[i].ID != id {
					t.Errorf("pkgs[%d] = %s, want %s", i, pkgs[i].ID, id)
				}
			}
		})
	}
}

func TestSearchRejectsLongQuery(t *testing.T) {
	h := New(Options{Catalog: testCatalog()}).Handler()
	rec := get(t, h, "/api/packages?query="+strings.Repeat("a", 300))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Code != "INVALID_INPUT" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetPackage(t *testing.T) {
	h := New(Options{Catalog: testCatalog()}).Handler()

	tests := []struct {
		target string
		status int
	}{
		{"/api/packages/hello", http.StatusOK},
		{"/api/packages/HELLO", http.StatusOK},
		{"/api/packages/missing", http.StatusNotFound},
		{"/api/packages/..", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestSearchUsesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cat := testCatalog()
	s := New(Options{Catalog: cat, Cache: c, CacheTTL: time.Hour})

	first, err := s.search(context.Background(), "bad")
	if err != nil || len(first) != 2 {
		t.Fatalf("search = %v, %v", first, err)
	}

	// a cached result survives until the catalog is replaced
	before := cat.LoadedAt()
	for cat.LoadedAt().Equal(before) {
		cat.Replace([]bpl.Package{{ID: "bad", Name: "bad"}})
	}
	second, err := s.search(context.Background(), "bad")
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 1 || second[0].ID != "bad" {
		t.Errorf("search after replace = %+v, want fresh result", second)
	}
}

func TestPage(t *testing.T) {
	h := New(Options{Catalog: testCatalog()}).Handler()

	tests := []struct {
		target string
		want   []string
	}{
		{"/packages", []string{"All packages", "3 packages found", `data-key="2"`}},
		{"/packages?q=bad", []string{`Search results for "bad"`, "2 packages found"}},
		{"/packages?q=nothing", []string{"No packages found"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
			for _, s := range tt.want {
				if !strings.Contains(rec.Body.String(), s) {
					t.Errorf("body missing %q", s)
				}
			}
		})
	}
}

func TestPageFailure(t *testing.T) {
	var logs bytes.Buffer
	h := New(Options{Catalog: testCatalog(), Logger: log.New(&logs)}).Handler()

	rec := get(t, h, "/packages?q="+strings.Repeat("x", 300))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to load packages") {
		t.Errorf("body = %s", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "Error fetching packages") {
		t.Errorf("failure not logged: %s", logs.String())
	}
}

func TestHealthAndRequestID(t *testing.T) {
	h := New(Options{}).Handler()

	rec := get(t, h, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id")
	}

	const id = "2f1c1a55-54a4-4b8c-9d0f-9a7c40d1e6a1"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}

func TestRequestLogging(t *testing.T) {
	var logs bytes.Buffer
	h := New(Options{Catalog: testCatalog(), Logger: log.New(&logs)}).Handler()
	get(t, h, "/api/packages?query=zsh")

	out := logs.String()
	for _, s := range []string{"request", "status=200", "request_id="} {
		if !strings.Contains(out, s) {
			t.Errorf("log missing %q: %s", s, out)
		}
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(Options{Catalog: testCatalog()}).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
