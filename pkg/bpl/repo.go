package bpl

import (
	"fmt"
	"strings"

	"github.com/badtechnologies/bpm/pkg/errors"
)

// DefaultRepo is the official BadOS package library.
const DefaultRepo = "badtechnologies/bpl/main"

// RawBaseURL serves raw repository files.
const RawBaseURL = "https://raw.githubusercontent.com"

// Repo identifies a package library on GitHub.
type Repo struct {
	Owner  string
	Name   string
	Branch string
}

// ParseRepo parses "owner/repo/branch". An empty string yields [DefaultRepo].
func ParseRepo(s string) (Repo, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		s = DefaultRepo
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Repo{}, errors.New(errors.ErrCodeInvalidRepo, "repo must be owner/repo/branch, got %q", s)
	}
	for _, p := range parts {
		if p == "" || p == ".." || p == "." {
			return Repo{}, errors.New(errors.ErrCodeInvalidRepo, "invalid repo segment in %q", s)
		}
	}
	return Repo{Owner: parts[0], Name: parts[1], Branch: parts[2]}, nil
}

// MustParseRepo is like ParseRepo but panics on error.
func MustParseRepo(s string) Repo {
	r, err := ParseRepo(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the "owner/repo/branch" form.
func (r Repo) String() string {
	return r.Owner + "/" + r.Name + "/" + r.Branch
}

// FileURL returns the raw URL of lib/<id>/<file> under base.
// An empty base means [RawBaseURL].
func (r Repo) FileURL(base, id, file string) string {
	if base == "" {
		base = RawBaseURL
	}
	return fmt.Sprintf("%s/%s/lib/%s/%s", strings.TrimSuffix(base, "/"), r, id, file)
}
