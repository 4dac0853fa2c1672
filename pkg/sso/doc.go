// Package sso implements the console's sign-in flows on top of the per-cluster strategies
// resolved by package auth.
//
// # Overview
//
// Each cluster gets exactly one sign-in provider, in registry order:
//
//	OAuthTokenProvider  client id and secret exchanged at the cluster's token URL (client credentials grant)
//	ScramProvider       username and password checked by the console API against that cluster
//	AnonymousProvider   no credentials, no authorization
//
// A Keycloak realm may be configured as an additional redirect-based provider. It is listed
// after the cluster providers.
//
// # Usage Example
//
//	authenticator, err := sso.NewAuthenticator(sso.Options{
//		Registry: registry,
//		Factory:  sso.NewProviderFactory(backendURL, 10*time.Second),
//		Codec:    codec,
//		Logger:   logger,
//	})
//	handlers := sso.NewHandlers(authenticator, auth.NewAuditLogger(logger, metrics), secure, logger)
//	handlers.UseSignInLimit(limiter.Handler) // optional, credentials route only
//	handlers.RegisterRoutes(router)
//
// # HTTP Endpoints
//
//	GET  /api/auth/providers           sign-in options
//	POST /api/auth/callback/{cluster}  credentials sign-in (JSON or form post)
//	GET  /api/auth/signin/keycloak     start Keycloak sign-in
//	GET  /api/auth/callback/keycloak   finish Keycloak sign-in
//	GET  /api/auth/session             current session, {} when signed out
//	POST /api/auth/signout             revoke the session token
//
// The session token is an HS256 JWT kept in the console.session-token cookie. Sign-out
// records the token id in a RevocationStore (in memory, or Redis when several console
// replicas share sessions) until the token expires.
package sso
