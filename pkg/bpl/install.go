package bpl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/badtechnologies/bpm/pkg/errors"
)

// DefaultExecDir is where bdsh looks for executables.
var DefaultExecDir = filepath.Join("bdsh", "exec")

// ErrNotInstalled is reported by [Remove] for packages with no file in the
// exec directory.
var ErrNotInstalled = stderrors.New("package is not installed")

// BinarySource downloads package binaries.
type BinarySource interface {
	FetchBinary(ctx context.Context, pkg *Package) ([]byte, error)
}

// InstallStatus is the outcome for one package.
type InstallStatus int

const (
	StatusInstalled InstallStatus = iota
	StatusNoBinary
	StatusFailed
)

func (s InstallStatus) String() string {
	switch s {
	case StatusInstalled:
		return "installed"
	case StatusNoBinary:
		return "no binary"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("InstallStatus(%d)", int(s))
	}
}

// InstallResult reports what happened to one package.
type InstallResult struct {
	Package *Package
	Status  InstallStatus
	Path    string
	Err     error
}

// Installer writes package binaries into Dir.
type Installer struct {
	Dir    string
	Source BinarySource
	Logger *log.Logger
}

// Install downloads every package binary into the exec directory.
// Packages without a binary are skipped; failed downloads are reported per
// package and do not stop the remaining installs. Only directory creation
// and context cancellation return an error.
func (in *Installer) Install(ctx context.Context, pkgs []*Package) ([]InstallResult, error) {
	dir := in.Dir
	if dir == "" {
		dir = DefaultExecDir
	}
	logger := in.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create exec dir %s", dir)
	}

	results := make([]InstallResult, 0, len(pkgs))
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Info("installing", "package", pkg.Label(), "name", pkg.Name)

		if pkg.Bin == "" {
			results = append(results, InstallResult{Package: pkg, Status: StatusNoBinary})
			continue
		}

		path, err := in.installOne(ctx, dir, pkg)
		if err != nil {
			logger.Warn("could not install package binary", "package", pkg.ID, "err", err)
			results = append(results, InstallResult{Package: pkg, Status: StatusFailed, Err: err})
			continue
		}
		results = append(results, InstallResult{Package: pkg, Status: StatusInstalled, Path: path})
	}
	return results, nil
}

func (in *Installer) installOne(ctx context.Context, dir string, pkg *Package) (string, error) {
	if err := errors.ValidatePackageID(pkg.ID); err != nil {
		return "", err
	}
	data, err := in.Source.FetchBinary(ctx, pkg)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, pkg.ID)
	tmp, err := os.CreateTemp(dir, "."+pkg.ID+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveResult reports what happened to one removal.
type RemoveResult struct {
	ID   string
	Path string
	Err  error // nil on success, ErrNotInstalled when absent
}

// Remove deletes the binaries of ids from dir. Absent packages are
// reported with [ErrNotInstalled] and skipped.
func Remove(dir string, ids []string) []RemoveResult {
	if dir == "" {
		dir = DefaultExecDir
	}
	results := make([]RemoveResult, 0, len(ids))
	for _, id := range ids {
		if err := errors.ValidatePackageID(id); err != nil {
			results = append(results, RemoveResult{ID: id, Err: err})
			continue
		}
		path := filepath.Join(dir, id)
		err := os.Remove(path)
		if os.IsNotExist(err) {
			err = ErrNotInstalled
		}
		results = append(results, RemoveResult{ID: id, Path: path, Err: err})
	}
	return results
}
