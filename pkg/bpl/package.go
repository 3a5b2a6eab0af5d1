package bpl

import (
	"encoding/json"

	"github.com/badtechnologies/bpm/pkg/errors"
)

// ManifestFile is the name of the manifest inside each package directory.
const ManifestFile = "bpl.json"

// Package is one entry of a package library.
type Package struct {
	ID       string   `json:"id" toml:"id"`
	Name     string   `json:"name" toml:"name"`
	Version  string   `json:"version" toml:"version"`
	Author   string   `json:"author" toml:"author"`
	Bin      string   `json:"bin,omitempty" toml:"bin"`
	Homepage string   `json:"homepage,omitempty" toml:"homepage"`
	Requires []string `json:"requires,omitempty" toml:"requires"`
	Repo     string   `json:"repo,omitempty" toml:"repo"`
}

// manifest mirrors bpl.json. The id comes from the directory name.
type manifest struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Author   string   `json:"author"`
	Bin      *string  `json:"bin"`
	Homepage *string  `json:"homepage"`
	Requires []string `json:"requires"`
}

// Decode parses the bpl.json of package id hosted in repo.
func Decode(id string, data []byte, repo Repo) (*Package, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s: malformed %s", id, ManifestFile)
	}
	p := &Package{
		ID:       id,
		Name:     m.Name,
		Version:  m.Version,
		Author:   m.Author,
		Requires: m.Requires,
		Repo:     repo.String(),
	}
	if m.Bin != nil {
		p.Bin = *m.Bin
	}
	if m.Homepage != nil {
		p.Homepage = *m.Homepage
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks required fields and that every id and file name is safe
// to use in URLs and on disk.
func (p *Package) Validate() error {
	if err := errors.ValidatePackageID(p.ID); err != nil {
		return err
	}
	switch {
	case p.Name == "":
		return errors.New(errors.ErrCodeInvalidManifest, "%s: missing name", p.ID)
	case p.Version == "":
		return errors.New(errors.ErrCodeInvalidManifest, "%s: missing version", p.ID)
	case p.Author == "":
		return errors.New(errors.ErrCodeInvalidManifest, "%s: missing author", p.ID)
	}
	if p.Bin != "" {
		if err := errors.ValidateBinName(p.Bin); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s: bad bin", p.ID)
		}
	}
	for _, dep := range p.Requires {
		if err := errors.ValidatePackageID(dep); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s: bad requirement %q", p.ID, dep)
		}
	}
	return nil
}

// BinURI returns the download URL of the package binary, or "" if the
// package ships none. Packages without a Repo resolve against DefaultRepo.
func (p *Package) BinURI() string {
	if p.Bin == "" {
		return ""
	}
	repo, err := ParseRepo(p.Repo)
	if err != nil {
		return ""
	}
	return repo.FileURL(RawBaseURL, p.ID, p.Bin)
}

// Label is the "<id>-<version>" form used in install output.
func (p *Package) Label() string {
	return p.ID + "-" + p.Version
}
