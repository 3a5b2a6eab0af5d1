// Package pkg holds the libraries behind bpm, the BadOS package manager.
//
// # Overview
//
// Packages live in a BPL package library: a GitHub repository where every
// package is a directory lib/<id>/ holding a bpl.json manifest and
// optionally a binary. The pkg directory is organized as:
//
//  1. [bpl] - Domain types (manifests, repos, requirement resolution, install)
//  2. [catalog] - Searchable in-memory snapshot of a library
//  3. [integrations] - HTTP clients for the library on GitHub
//  4. [portal] - The package search page and its rendering
//  5. [api] - The HTTP server for /api/packages and the portal
//
// Supporting packages: [cache] (file, redis and null backends), [errors]
// (coded errors and validation), [observability] (hooks) and [buildinfo].
//
// # Data Flow
//
//	GitHub (raw files, contents API)
//	         ↓
//	integrations/bpl.Client  ──→  bpl.Resolver ──→ bpl.Installer (bpm install)
//	         ↓
//	catalog.Catalog ──→ api.Server ──→ /api/packages ──→ portal.Page
//
// [bpl]: github.com/badtechnologies/bpm/pkg/bpl
// [catalog]: github.com/badtechnologies/bpm/pkg/catalog
// [integrations]: github.com/badtechnologies/bpm/pkg/integrations
// [portal]: github.com/badtechnologies/bpm/pkg/portal
// [api]: github.com/badtechnologies/bpm/pkg/api
// [cache]: github.com/badtechnologies/bpm/pkg/cache
// [errors]: github.com/badtechnologies/bpm/pkg/errors
// [observability]: github.com/badtechnologies/bpm/pkg/observability
// [buildinfo]: github.com/badtechnologies/bpm/pkg/buildinfo
package pkg
