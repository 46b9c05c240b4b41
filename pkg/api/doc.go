// Package api provides the HTTP surface of the dictionary service.
//
// All routes are read-only and mounted under a configurable prefix
// (default /api/v1); a second gateway prefix can mount the same routes
// again for deployments behind a path-rewriting ingress. Listings share
// a common shape: version, page and page_size query parameters plus
// per-entity filters, returning a PaginatedResponse. Detail routes
// return the resolver's joined views and map lookup misses to 404.
// Every dictionary route answers 503 until the store has loaded.
package api
