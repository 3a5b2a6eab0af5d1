// Package bpl implements a client for a BadOS package library hosted on
// GitHub.
//
// Manifests and binaries are read from raw.githubusercontent.com; the
// package index is the list of directories under lib/, read through the
// GitHub contents API:
//
//	client, err := bpl.NewClient(bpl.Options{Repo: "badtechnologies/bpl/main"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pkg, err := client.FetchPackage(ctx, "hello", false)
//
// A GitHub token is optional. Without one the contents API allows 60
// requests per hour.
package bpl
