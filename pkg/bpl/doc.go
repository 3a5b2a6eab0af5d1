// Package bpl models the BadOS package library: package manifests, the
// GitHub repository that hosts them, dependency resolution, and local
// installation into the bdsh exec directory.
//
// # Library layout
//
// A library is a GitHub repository addressed as "owner/repo/branch"
// (default [DefaultRepo]). Every package is a directory lib/<id>/ holding a
// bpl.json manifest and, optionally, the binary named by its "bin" field:
//
//	{
//	  "name": "Hello World",
//	  "version": "1.0.0",
//	  "author": "badtechnologies",
//	  "bin": "hello",
//	  "homepage": "https://example.com",
//	  "requires": ["libbad"]
//	}
//
// # Resolving and installing
//
// [Resolver] walks "requires" breadth-first, level by level, fetching each
// id at most once. Packages that cannot be fetched are reported in the
// [Resolution] and skipped; they never abort the walk. [Installer] then
// downloads each binary into the exec directory, one file per package id.
package bpl
