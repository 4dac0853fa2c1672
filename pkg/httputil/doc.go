// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
// Every error body has the same shape, {"error": "<message>"}:
//
//	httputil.WriteSuccess(w, session)
//	httputil.WriteUnauthorized(w, "invalid credentials")
//	httputil.WriteServiceUnavailable(w, "cluster registry unavailable")
//
// # Request Parsing
//
//	clusterID, ok := httputil.ParsePathStringOrError(w, r, "cluster")
//	if !ok {
//		return // Error response already written
//	}
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// RequestIDMiddleware must run before LoggingMiddleware for log lines to carry request_id.
package httputil
