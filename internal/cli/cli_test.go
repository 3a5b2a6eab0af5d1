package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/badtechnologies/bpm/pkg/bpl"
	"github.com/badtechnologies/bpm/pkg/errors"
	"github.com/badtechnologies/bpm/pkg/portal"
)

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.out = &out
	c.in = strings.NewReader("")
	return c, &out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()

	want := []string{"install", "remove", "search", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	for _, flag := range []string{keyRepo, keyExecDir, keyCache, keyCatalog, "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	c, _ := newTestCLI(t)
	cfg := c.config()

	if cfg.Repo != bpl.DefaultRepo {
		t.Errorf("Repo = %q", cfg.Repo)
	}
	if cfg.ExecDir != bpl.DefaultExecDir {
		t.Errorf("ExecDir = %q", cfg.ExecDir)
	}
	if cfg.Addr != ":8080" || cfg.APIURL != "http://localhost:8080" || cfg.Cache != cacheFile {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
}

func TestConfigPrecedence(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	writeFile(t, filepath.Join(xdg, appName, "config.toml"), `
repo = "file/repo/main"
exec-dir = "/from/file"
addr = ":9000"
`)
	t.Setenv("BPM_EXEC_DIR", "/from/env")

	c, out := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"--repo", "flag/repo/main", "cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	cfg := c.config()
	if cfg.Repo != "flag/repo/main" {
		t.Errorf("Repo = %q, want flag value", cfg.Repo)
	}
	if cfg.ExecDir != "/from/env" {
		t.Errorf("ExecDir = %q, want env value", cfg.ExecDir)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want file value", cfg.Addr)
	}
	if !strings.Contains(out.String(), appName) {
		t.Errorf("cache path output = %q", out.String())
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := c.loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

const seedCatalog = `
[[package]]
id = "hello"
name = "Hello World"
version = "1.0.0"
author = "badtechnologies"

[[package]]
id = "libbad"
name = "libbad"
version = "2.0.0"
author = "badtechnologies"

[[package]]
id = "zsh"
name = "zsh"
version = "5.9"
author = "someone"
requires = ["libbad"]
`

func TestSearchLocal(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "catalog.toml")
	writeFile(t, seed, seedCatalog)

	tests := []struct {
		query   string
		want    []string
		notWant []string
	}{
		{"", []string{"All packages", "3 packages found", "Hello World (hello)", "libbad"}, nil},
		{"bad", []string{`Search results for "bad"`, "2 packages found"}, []string{"zsh"}},
		{"nothing", []string{"No packages found"}, []string{"<", "│"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, out := newTestCLI(t)
			c.v.Set(keyCatalog, seed)

			if err := c.runSearch(context.Background(), tt.query, true, true); err != nil {
				t.Fatalf("runSearch: %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output missing %q:\n%s", s, out.String())
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out.String(), s) {
					t.Errorf("output should not contain %q:\n%s", s, out.String())
				}
			}
		})
	}
}

func TestSearchAPI(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"hello","name":"hello","version":"1.0.0","author":"bad"}]`))
	}))
	defer srv.Close()

	c, out := newTestCLI(t)
	c.v.Set(keyAPIURL, srv.URL)
	if err := c.runSearch(context.Background(), "he llo", false, false); err != nil {
		t.Fatalf("runSearch: %v", err)
	}
	if gotQuery != "query=he+llo" {
		t.Errorf("raw query = %q", gotQuery)
	}
	if !strings.Contains(out.String(), "1 packages found") {
		t.Errorf("output = %s", out.String())
	}
}

func TestSearchAPIDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, out := newTestCLI(t)
	c.v.Set(keyAPIURL, url)
	if err := c.runSearch(context.Background(), "", false, false); err == nil {
		t.Error("expected error when the API is unreachable")
	}
	if !strings.Contains(out.String(), portal.MsgFailed) {
		t.Errorf("output = %s", out.String())
	}
}

func TestSearchRejectsBadAPIURL(t *testing.T) {
	for _, apiURL := range []string{"", "ftp://example.com", "localhost:8080"} {
		t.Run(apiURL, func(t *testing.T) {
			c, out := newTestCLI(t)
			c.v.Set(keyAPIURL, apiURL)

			err := c.runSearch(context.Background(), "", false, false)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
			if out.Len() != 0 {
				t.Errorf("nothing should be printed, got %q", out.String())
			}
		})
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hello"), "#!/bin/sh\n")

	c, out := newTestCLI(t)
	c.v.Set(keyExecDir, dir)
	if err := c.runRemove([]string{"hello", "ghost"}, true); err != nil {
		t.Fatalf("runRemove: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "hello")); !os.IsNotExist(err) {
		t.Error("hello was not removed")
	}
	for _, s := range []string{"Removed hello", "ghost: Could not find package, skipping"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}
}

func TestCompleteInstalled(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"hello", "helper", "zsh", ".hidden"} {
		writeFile(t, filepath.Join(dir, name), "")
	}
	c, _ := newTestCLI(t)
	c.v.Set(keyExecDir, dir)

	got, _ := c.completeInstalled(nil, []string{"helper"}, "hel")
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("completeInstalled = %v, want [hello]", got)
	}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name          string
		key           tea.KeyMsg
		wantAnswered  bool
		wantConfirmed bool
	}{
		{"y", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true, true},
		{"Y", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")}, true, true},
		{"enter defaults to no", tea.KeyMsg{Type: tea.KeyEnter}, true, false},
		{"n", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, true, false},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, true, false},
		{"other key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := NewConfirmModel("Proceed?").Update(tt.key)
			got := m.(ConfirmModel)
			if got.Answered != tt.wantAnswered || got.Confirmed != tt.wantConfirmed {
				t.Errorf("answered=%v confirmed=%v", got.Answered, got.Confirmed)
			}
		})
	}

	if v := NewConfirmModel("Proceed?").View(); !strings.Contains(v, "[y/N]") {
		t.Errorf("View() = %q", v)
	}
}

func TestConfirmSkip(t *testing.T) {
	c, _ := newTestCLI(t)
	ok, err := c.confirm("Proceed?", true)
	if err != nil || !ok {
		t.Errorf("confirm(skip) = %v, %v", ok, err)
	}
}

func TestPortalURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080/packages",
		"127.0.0.1:9000": "http://127.0.0.1:9000/packages",
	}
	for addr, want := range tests {
		if got := portalURL(addr); got != want {
			t.Errorf("portalURL(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestListingRow(t *testing.T) {
	row := listingRow(bpl.Package{ID: "zsh", Name: "Z Shell", Version: "5.9", Author: "someone", Requires: []string{"a", "b"}})
	want := []string{"Z Shell (zsh)", "5.9", "someone", "a, b"}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}
	if row := listingRow(bpl.Package{ID: "x"}); row[0] != "x" || row[3] != "-" {
		t.Errorf("row = %v", row)
	}
}
