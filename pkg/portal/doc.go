// Package portal implements the package search page of the BadOS portal.
//
// A [Page] reads the search query from the "q" URL parameter, requests
// /api/packages (with ?query=<q> when a query is present) through a
// [Fetcher], and exposes the outcome as a [View] that a [Renderer] turns
// into HTML. Each package is rendered by the "listing" template.
//
// # Fetch lifecycle
//
// The page state is a tagged [Status]: Idle before mount, Loading while a
// fetch is in flight, then Succeeded or Failed. Every state renders
// differently, so "still loading", "no results" and "failed" are
// distinguishable.
//
// [Page.Mount] issues exactly one fetch. [Page.SetQuery] refetches when the
// query actually changes and does nothing otherwise. When fetches overlap,
// only the most recently started one may update the page; older results
// are dropped. After [Page.Unmount] no in-flight result is applied.
//
// Failures never escape the page: they are logged on the page's logger and
// recorded in the Failed status. The package list keeps its previous value.
package portal
