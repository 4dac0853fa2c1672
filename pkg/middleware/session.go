package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/platinummonkey/kafka-console/pkg/auth"
	"github.com/platinummonkey/kafka-console/pkg/contextkeys"
	"github.com/platinummonkey/kafka-console/pkg/httputil"
	"github.com/platinummonkey/kafka-console/pkg/observability"
	"github.com/platinummonkey/kafka-console/pkg/sso"
)

// SessionResolver turns a raw session token into a session
type SessionResolver interface {
	Session(ctx context.Context, raw string) (auth.Session, error)
}

// SessionMiddleware resolves the caller's session and stores it in the request context
type SessionMiddleware struct {
	resolver SessionResolver
	optional bool // If true, allow requests without a session
	logger   *observability.Logger
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(resolver SessionResolver, optional bool, logger *observability.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		resolver: resolver,
		optional: optional,
		logger:   logger.WithField("module", "session"),
	}
}

// Handler wraps an HTTP handler with session resolution
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := sessionToken(r)
		if raw == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			httputil.WriteUnauthorized(w, "sign-in required")
			return
		}

		session, err := m.resolver.Session(r.Context(), raw)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, sso.ErrSessionRevoked) {
				m.logger.WithFields(map[string]interface{}{
					"request_id": observability.GetRequestID(r.Context()),
					"path":       r.URL.Path,
				}).WithError(err).Error("session lookup failed")
				httputil.WriteServiceUnavailable(w, "session lookup unavailable")
				return
			}
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			httputil.WriteUnauthorized(w, "invalid or expired session")
			return
		}

		ctx := contextkeys.WithSession(r.Context(), &session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionToken reads the session cookie, falling back to a bearer token
func sessionToken(r *http.Request) string {
	if raw := sso.SessionTokenFromRequest(r); raw != "" {
		return raw
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetSession extracts the session from the request, or nil if there is none
func GetSession(r *http.Request) *auth.Session {
	session, ok := r.Context().Value(contextkeys.SessionKey).(*auth.Session)
	if !ok {
		return nil
	}
	return session
}
