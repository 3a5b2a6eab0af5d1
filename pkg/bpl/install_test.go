package bpl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeBinaries map[string]string

func (f fakeBinaries) FetchBinary(_ context.Context, p *Package) ([]byte, error) {
	if data, ok := f[p.ID]; ok {
		return []byte(data), nil
	}
	return nil, errors.New("HTTP 404; could not access package binaries")
}

func TestInstall(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bdsh", "exec")

	hello := pkg("hello")
	hello.Bin = "hello"
	lib := pkg("libonly")
	broken := pkg("broken")
	broken.Bin = "broken"

	in := &Installer{Dir: dir, Source: fakeBinaries{"hello": "echo hello"}}
	results, err := in.Install(context.Background(), []*Package{hello, lib, broken})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	wantStatus := []InstallStatus{StatusInstalled, StatusNoBinary, StatusFailed}
	for i, r := range results {
		if r.Status != wantStatus[i] {
			t.Errorf("%s status = %v, want %v", r.Package.ID, r.Status, wantStatus[i])
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "hello"))
	if err != nil {
		t.Fatalf("read installed binary: %v", err)
	}
	if string(data) != "echo hello" {
		t.Errorf("binary = %q", data)
	}
	info, _ := os.Stat(filepath.Join(dir, "hello"))
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("installed binary should be executable, mode %v", info.Mode())
	}
	if _, err := os.Stat(filepath.Join(dir, "broken")); !os.IsNotExist(err) {
		t.Error("failed install should not leave a file behind")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("exec dir should hold only the installed binary, got %d entries", len(entries))
	}
}

func TestInstallRejectsUnsafeID(t *testing.T) {
	dir := t.TempDir()
	evil := &Package{ID: "../evil", Name: "e", Version: "1", Author: "a", Bin: "x"}

	in := &Installer{Dir: dir, Source: fakeBinaries{"../evil": "rm -rf"}}
	results, err := in.Install(context.Background(), []*Package{evil})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if results[0].Status != StatusFailed {
		t.Errorf("status = %v, want failed", results[0].Status)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "evil")); !os.IsNotExist(err) {
		t.Error("binary escaped the exec directory")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello"), []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}

	results := Remove(dir, []string{"hello", "ghost", "../etc"})
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("hello: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, ErrNotInstalled) {
		t.Errorf("ghost: err = %v, want ErrNotInstalled", results[1].Err)
	}
	if results[2].Err == nil {
		t.Error("unsafe id should be rejected")
	}
	if _, err := os.Stat(filepath.Join(dir, "hello")); !os.IsNotExist(err) {
		t.Error("hello should be removed")
	}
}

func TestInstallStatusString(t *testing.T) {
	if StatusInstalled.String() != "installed" || StatusNoBinary.String() != "no binary" || StatusFailed.String() != "failed" {
		t.Error("unexpected status strings")
	}
}
