// Package proxy forwards console API calls (/api/kafkas/...) to the console backend.
//
// Each forwarded request carries the Authorization value recorded in the caller's session
// at sign-in. Whatever Authorization header the browser sent is replaced, and it is removed
// entirely when the session has none (anonymous clusters). Console cookies are not forwarded.
//
//	backend, err := proxy.NewBackendProxy(cfg.Backend.URL, nil, logger)
//	api := router.PathPrefix("/api/kafkas").Subrouter()
//	api.Use(sessions.Handler, middleware.ConsoleModeMiddleware(cfg.Console.Mode))
//	api.PathPrefix("/").Handler(backend)
//
// Trace context is propagated to the backend through the otelhttp transport.
package proxy
