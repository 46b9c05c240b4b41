// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteSuccess(w, data)
//	httputil.WriteJSON(w, http.StatusOK, data)
//
// Error responses:
//
//	httputil.WriteBadRequest(w, "invalid version")
//	httputil.WriteNotFoundError(w, "field not found")
//
// # Request Parsing
//
// Path parameters:
//
//	tag, ok := httputil.ParsePathIntOrError(w, r, "tag")
//	name, ok := httputil.ParsePathStringOrError(w, r, "name")
//
// Query parameters:
//
//	limit, err := httputil.ParseQueryInt(r, "page_size", 20)
//	tagMin, err := httputil.ParseQueryIntPtr(r, "tag_min")
//	isRegex, err := httputil.ParseQueryBool(r, "is_regex", false)
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.RecoveryMiddleware(logger),
//		httputil.LoggingMiddleware(logger),
//	)
package httputil
