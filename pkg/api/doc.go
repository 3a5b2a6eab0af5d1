// Package api serves the package library over HTTP.
//
// Routes:
//
//	GET /api/packages?query=<q>   JSON array of matching packages
//	GET /api/packages/{id}        a single package
//	GET /packages?q=<q>           the server-rendered portal page
//	GET /healthz                  liveness probe
//
// Package lists are always JSON arrays; an empty result is [] rather than
// null. Errors are JSON objects of the form {"code": ..., "error": ...}
// with a status derived from the error code (see errors.HTTPStatus).
package api
