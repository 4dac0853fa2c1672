package sso

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeycloakConfig_Validate(t *testing.T) {
	valid := KeycloakConfig{
		ClientID:     "console",
		ClientSecret: "secret",
		IssuerURL:    "https://keycloak.example.com/realms/console",
		RedirectURL:  "https://console.example.com/api/auth/callback/keycloak",
	}

	tests := []struct {
		name     string
		mutate   func(c *KeycloakConfig)
		errorMsg string
	}{
		{name: "valid with default scopes", mutate: func(c *KeycloakConfig) {}},
		{name: "valid with explicit scopes", mutate: func(c *KeycloakConfig) { c.Scopes = []string{"openid", "email"} }},
		{name: "missing client_id", mutate: func(c *KeycloakConfig) { c.ClientID = "" }, errorMsg: "client_id is required"},
		{name: "missing client_secret", mutate: func(c *KeycloakConfig) { c.ClientSecret = "" }, errorMsg: "client_secret is required"},
		{name: "missing issuer_url", mutate: func(c *KeycloakConfig) { c.IssuerURL = "" }, errorMsg: "issuer_url is required"},
		{name: "missing redirect_url", mutate: func(c *KeycloakConfig) { c.RedirectURL = "" }, errorMsg: "redirect_url is required"},
		{name: "missing openid scope", mutate: func(c *KeycloakConfig) { c.Scopes = []string{"profile"} }, errorMsg: "'openid' scope is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			}
		})
	}
}

// fakeIssuer is a minimal OpenID provider: discovery, JWKS and a token endpoint
type fakeIssuer struct {
	server   *httptest.Server
	key      *rsa.PrivateKey
	clientID string
	subject  string
}

func newFakeIssuer(t *testing.T, clientID string) *fakeIssuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	issuer := &fakeIssuer{key: key, clientID: clientID, subject: "user-42"}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		base := issuer.server.URL
		json.NewEncoder(w).Encode(map[string]interface{}{
			"issuer":                                base,
			"authorization_endpoint":                base + "/auth",
			"token_endpoint":                        base + "/token",
			"jwks_uri":                              base + "/keys",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": "test-key",
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
			}},
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}

		now := time.Now()
		idToken := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"iss":                issuer.server.URL,
			"aud":                issuer.clientID,
			"sub":                issuer.subject,
			"iat":                now.Unix(),
			"exp":                now.Add(5 * time.Minute).Unix(),
			"preferred_username": "alice",
			"email":              "alice@example.com",
		})
		idToken.Header["kid"] = "test-key"
		signed, err := idToken.SignedString(key)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "kc-access-token",
			"token_type":   "Bearer",
			"expires_in":   300,
			"id_token":     signed,
		})
	})

	issuer.server = httptest.NewServer(mux)
	t.Cleanup(issuer.server.Close)
	return issuer
}

func (f *fakeIssuer) config() KeycloakConfig {
	return KeycloakConfig{
		IssuerURL:    f.server.URL,
		ClientID:     f.clientID,
		ClientSecret: "secret",
		RedirectURL:  "http://console.local/api/auth/callback/keycloak",
	}
}

func TestKeycloakProvider_Login(t *testing.T) {
	issuer := newFakeIssuer(t, "console")

	provider, err := NewKeycloakProvider(context.Background(), issuer.config())
	require.NoError(t, err)

	info := provider.Info()
	assert.Equal(t, KeycloakProviderID, info.ID)
	assert.Equal(t, "/api/auth/signin/keycloak", info.SignInURL)

	w := httptest.NewRecorder()
	provider.InitiateLogin(w, httptest.NewRequest("GET", "/api/auth/signin/keycloak", nil), "state-1")
	assert.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth", location.Path)
	assert.Equal(t, "state-1", location.Query().Get("state"))
	assert.Equal(t, "console", location.Query().Get("client_id"))
	assert.Contains(t, location.Query().Get("scope"), "openid")

	req := httptest.NewRequest("GET", "/api/auth/callback/keycloak?code=good-code&state=state-1", nil)
	user, err := provider.HandleCallback(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "user-42", user.ID)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.Authorization)
	assert.Equal(t, "Bearer kc-access-token", *user.Authorization)
}

func TestKeycloakProvider_CallbackErrors(t *testing.T) {
	issuer := newFakeIssuer(t, "console")
	provider, err := NewKeycloakProvider(context.Background(), issuer.config())
	require.NoError(t, err)

	tests := []struct {
		name     string
		query    string
		errorMsg string
	}{
		{name: "provider error", query: "error=access_denied", errorMsg: "access_denied"},
		{name: "missing code", query: "state=x", errorMsg: "missing authorization code"},
		{name: "rejected code", query: "code=bad-code", errorMsg: "failed to exchange token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/auth/callback/keycloak?"+tt.query, nil)
			user, err := provider.HandleCallback(context.Background(), req)
			assert.Nil(t, user)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestKeycloakProvider_RejectsForeignAudience(t *testing.T) {
	issuer := newFakeIssuer(t, "someone-else")
	cfg := issuer.config()
	cfg.ClientID = "console"

	provider, err := NewKeycloakProvider(context.Background(), cfg)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/auth/callback/keycloak?code=good-code", nil)
	_, err = provider.HandleCallback(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to verify ID token")
}

func TestNewKeycloakProvider_DiscoveryFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewKeycloakProvider(context.Background(), KeycloakConfig{
		IssuerURL:    server.URL,
		ClientID:     "console",
		ClientSecret: "secret",
		RedirectURL:  "http://console.local/cb",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to discover OIDC provider")
}
