package sso

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/platinummonkey/kafka-console/pkg/auth"
	"github.com/platinummonkey/kafka-console/pkg/httputil"
	"github.com/platinummonkey/kafka-console/pkg/kafka"
	"github.com/platinummonkey/kafka-console/pkg/observability"
)

const (
	// SessionCookieName holds the signed session token
	SessionCookieName = "console.session-token"

	stateCookieName = "console.state"
	authCookiePath  = "/api/auth"
)

// form fields that are not credentials
var formControlFields = map[string]bool{
	"csrfToken":   true,
	"callbackUrl": true,
	"json":        true,
}

// Handlers handles sign-in related HTTP requests
type Handlers struct {
	authenticator *Authenticator
	audit         *auth.AuditLogger
	secureCookies bool
	signInLimit   func(http.Handler) http.Handler
	logger        *observability.Logger
}

// NewHandlers creates a new sign-in handlers instance
func NewHandlers(authenticator *Authenticator, audit *auth.AuditLogger, secureCookies bool, logger *observability.Logger) *Handlers {
	return &Handlers{
		authenticator: authenticator,
		audit:         audit,
		secureCookies: secureCookies,
		logger:        logger.WithField("module", "sso"),
	}
}

// UseSignInLimit wraps the credential sign-in route with mw. It must be called before RegisterRoutes.
func (h *Handlers) UseSignInLimit(mw func(http.Handler) http.Handler) {
	h.signInLimit = mw
}

// RegisterRoutes registers sign-in routes
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	var credentials http.Handler = http.HandlerFunc(h.credentialsCallback)
	if h.signInLimit != nil {
		credentials = h.signInLimit(credentials)
	}

	router.HandleFunc("/api/auth/providers", h.listProviders).Methods("GET")

	router.HandleFunc("/api/auth/signin/"+KeycloakProviderID, h.keycloakSignIn).Methods("GET")
	router.HandleFunc("/api/auth/callback/"+KeycloakProviderID, h.keycloakCallback).Methods("GET")
	router.Handle("/api/auth/callback/{cluster}", credentials).Methods("POST")

	router.HandleFunc("/api/auth/session", h.session).Methods("GET")
	router.HandleFunc("/api/auth/signout", h.signOut).Methods("POST")
}

// listProviders handles GET /api/auth/providers
func (h *Handlers) listProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.authenticator.Providers(r.Context())
	if err != nil {
		h.requestLogger(r).WithError(err).Error("failed to list sign-in providers")
		httputil.WriteServiceUnavailable(w, "cluster registry unavailable")
		return
	}

	infos := make([]ProviderInfo, 0, len(providers)+1)
	for _, p := range providers {
		callback := "/api/auth/callback/" + url.PathEscape(p.ClusterID())
		infos = append(infos, ProviderInfo{
			ID:          p.ID(),
			Name:        p.Name(),
			Type:        p.Type(),
			ClusterID:   p.ClusterID(),
			ClusterName: p.ClusterName(),
			Credentials: p.Credentials(),
			SignInURL:   callback,
			CallbackURL: callback,
		})
	}
	if kc := h.authenticator.Keycloak(); kc != nil {
		infos = append(infos, kc.Info())
	}

	httputil.WriteSuccess(w, infos)
}

// credentialsCallback handles POST /api/auth/callback/{cluster}
func (h *Handlers) credentialsCallback(w http.ResponseWriter, r *http.Request) {
	clusterID, ok := httputil.ParsePathStringOrError(w, r, "cluster")
	if !ok {
		return
	}

	creds, callbackURL, err := parseCredentials(r)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	provider, err := h.authenticator.Provider(r.Context(), clusterID)
	if err != nil {
		if errors.Is(err, kafka.ErrClusterNotFound) {
			httputil.WriteNotFoundError(w, "unknown cluster")
			return
		}
		h.requestLogger(r).WithError(err).Error("failed to resolve sign-in provider")
		httputil.WriteServiceUnavailable(w, "cluster registry unavailable")
		return
	}

	result, err := h.authenticator.LoginWith(r.Context(), provider, creds)

	event := auth.LoginEvent{Provider: provider.ID(), ClusterID: clusterID, Err: err}
	if result != nil {
		event.Subject = result.Subject
	}
	h.audit.LogLogin(r.Context(), r, event)

	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			httputil.WriteUnauthorized(w, "invalid credentials")
		case errors.Is(err, ErrProviderMisconfigured):
			httputil.WriteInternalError(w, err)
		default:
			h.requestLogger(r).WithError(err).Error("sign-in failed")
			httputil.WriteServiceUnavailable(w, "sign-in unavailable")
		}
		return
	}

	h.setSessionCookie(w, result)

	if callbackURL != "" {
		http.Redirect(w, r, callbackURL, http.StatusFound)
		return
	}
	httputil.WriteSuccess(w, result)
}

// keycloakSignIn handles GET /api/auth/signin/keycloak
func (h *Handlers) keycloakSignIn(w http.ResponseWriter, r *http.Request) {
	kc := h.authenticator.Keycloak()
	if kc == nil {
		httputil.WriteNotFoundError(w, "keycloak sign-in is not configured")
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     authCookiePath,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	kc.InitiateLogin(w, r, state)
}

// keycloakCallback handles GET /api/auth/callback/keycloak
func (h *Handlers) keycloakCallback(w http.ResponseWriter, r *http.Request) {
	kc := h.authenticator.Keycloak()
	if kc == nil {
		httputil.WriteNotFoundError(w, "keycloak sign-in is not configured")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil {
		httputil.WriteBadRequest(w, "missing state cookie")
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		httputil.WriteBadRequest(w, "invalid state parameter")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: authCookiePath, MaxAge: -1})

	user, err := kc.HandleCallback(r.Context(), r)
	var result *LoginResult
	if err == nil {
		result, err = h.authenticator.LoginWithKeycloak(user)
	}

	event := auth.LoginEvent{Provider: KeycloakProviderID, Err: err}
	if user != nil {
		event.Subject = user.ID
	}
	h.audit.LogLogin(r.Context(), r, event)

	if err != nil {
		httputil.WriteUnauthorized(w, "authentication failed")
		return
	}

	h.setSessionCookie(w, result)
	http.Redirect(w, r, "/", http.StatusFound)
}

// session handles GET /api/auth/session.
// Requests without a valid session get an empty object.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) {
	raw := SessionTokenFromRequest(r)
	if raw == "" {
		httputil.WriteSuccess(w, struct{}{})
		return
	}

	session, err := h.authenticator.Session(r.Context(), raw)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, ErrSessionRevoked) {
			h.requestLogger(r).WithError(err).Error("session lookup failed")
			httputil.WriteServiceUnavailable(w, "session lookup unavailable")
			return
		}
		h.clearSessionCookie(w)
		httputil.WriteSuccess(w, struct{}{})
		return
	}

	httputil.WriteSuccess(w, session)
}

// signOut handles POST /api/auth/signout
func (h *Handlers) signOut(w http.ResponseWriter, r *http.Request) {
	raw := SessionTokenFromRequest(r)
	if raw != "" {
		token, err := h.authenticator.SignOut(r.Context(), raw)
		switch {
		case err == nil:
			h.audit.LogLogin(r.Context(), r, auth.LoginEvent{
				Action:    auth.ActionSignOut,
				Provider:  token.Provider,
				ClusterID: token.ClusterID,
				Subject:   token.Subject,
			})
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, ErrSessionRevoked):
		default:
			h.requestLogger(r).WithError(err).Error("sign-out failed")
			httputil.WriteServiceUnavailable(w, "sign-out unavailable")
			return
		}
	}

	h.clearSessionCookie(w)
	httputil.WriteNoContent(w)
}

func (h *Handlers) requestLogger(r *http.Request) *observability.Logger {
	if requestID := observability.GetRequestID(r.Context()); requestID != "" {
		return h.logger.WithField("request_id", requestID)
	}
	return h.logger
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, result *LoginResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  result.ExpiresAt,
		MaxAge:   int(time.Until(result.ExpiresAt).Seconds()),
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SessionTokenFromRequest returns the session token from the session cookie, or "" if absent
func SessionTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// parseCredentials reads credentials from a JSON object or a form post.
// A relative callbackUrl in a form post is returned for redirecting.
func parseCredentials(r *http.Request) (auth.Credentials, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	creds := auth.Credentials{}
	if mediaType == "application/json" {
		if err := httputil.ParseJSON(r, &creds); err != nil {
			return nil, "", err
		}
		return creds, "", nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, "", errors.New("invalid form body")
	}
	for key, values := range r.PostForm {
		if formControlFields[key] || len(values) == 0 {
			continue
		}
		creds[key] = values[0]
	}

	return creds, safeCallbackURL(r.PostForm.Get("callbackUrl")), nil
}

// safeCallbackURL keeps only same-site absolute paths
func safeCallbackURL(callbackURL string) string {
	if !strings.HasPrefix(callbackURL, "/") || strings.HasPrefix(callbackURL, "//") || strings.HasPrefix(callbackURL, "/\\") {
		return ""
	}
	return callbackURL
}
