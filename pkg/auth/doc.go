// Package auth decides how users sign in to each Kafka cluster and carries the resulting
// credential into their session.
//
// # Strategies
//
// Every cluster declares an authentication method in its metadata. Resolve turns that
// declaration into one of three strategies:
//
//	oauth      -> OAuthTokenStrategy{TokenURL}   (PlaceholderTokenURL when none is declared)
//	basic      -> ScramBasicStrategy{ClusterID}
//	anonymous  -> AnonymousStrategy
//	(anything else, or nothing) -> AnonymousStrategy
//
// Resolve never fails. ResolveAll keeps the order and length of its input, so the n-th
// sign-in option always belongs to the n-th cluster. ValidateClusters reports declarations
// that resolve to something weaker than requested, such as an oauth cluster with no token URL.
//
//	strategies := auth.NewResolver(logger, metrics).ResolveAll(ctx, clusters)
//	for _, s := range strategies {
//		cfg := s.ProviderConfig()
//		...
//	}
//
// # Session propagation
//
// A provider that signs a user in may attach an authorization value to the User. Two hooks
// move it forward:
//
//	token = auth.OnTokenIssue(token, user)   // user is nil when refreshing
//	session = auth.OnSessionBuild(session, token)
//
// The value is never interpreted. A user without authorization yields a session without one.
//
// # Tokens
//
// TokenCodec signs session tokens as HS256 JWTs (github.com/golang-jwt/jwt/v5) with a random
// jti, used by sign-out to revoke a token before it expires.
//
// # Audit
//
// AuditLogger writes one structured log line per sign-in and sign-out and counts logins by
// provider and outcome.
package auth
