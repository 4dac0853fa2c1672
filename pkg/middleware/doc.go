// Package middleware provides HTTP middleware for sessions, console mode and sign-in throttling.
//
// # Middleware Components
//
// SessionMiddleware: resolves the console.session-token cookie (or a Bearer session token)
//
//	sessions := middleware.NewSessionMiddleware(authenticator, false, logger)
//	router.Use(sessions.Handler)
//	// handlers read it back with middleware.GetSession(r)
//
// ConsoleModeMiddleware: read-only consoles reject POST, PUT, PATCH and DELETE with 403
//
//	router.Use(middleware.ConsoleModeMiddleware(cfg.Console.Mode))
//
// RateLimitMiddleware: per client address limit on credential sign-ins
//
//	limiter := middleware.NewRateLimiter(middleware.DefaultSignInRateLimitConfig())
//	// or middleware.NewDistributedRateLimiter(redisClient, config, "") to share limits
//	throttle := middleware.NewRateLimitMiddleware(limiter, logger, metrics)
//	throttle.SetTrustedProxies(proxies) // from middleware.ParseTrustedProxies(CONSOLE_TRUSTED_PROXIES)
//	callbacks.Use(throttle.Handler)
//
// Requests are keyed by the connecting host without its port. X-Forwarded-For and X-Real-IP
// are only consulted when the peer is a trusted proxy.
//
// The in-memory limiter is a token bucket. The Redis limiter counts requests in fixed windows.
// Both fail open on errors unless SetFallbackEnabled(false) is called.
//
// # Related Packages
//
//   - pkg/sso: session tokens and the sign-in routes
//   - pkg/proxy: consumes the session stored by SessionMiddleware
package middleware
