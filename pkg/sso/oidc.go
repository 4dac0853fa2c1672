package sso

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/platinummonkey/kafka-console/pkg/auth"
)

// KeycloakConfig holds the Keycloak client registration
type KeycloakConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Validate validates the Keycloak configuration
func (c KeycloakConfig) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client_secret is required")
	}
	if c.IssuerURL == "" {
		return fmt.Errorf("issuer_url is required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("redirect_url is required")
	}

	for _, scope := range c.scopes() {
		if scope == oidc.ScopeOpenID {
			return nil
		}
	}
	return fmt.Errorf("'openid' scope is required for OIDC")
}

func (c KeycloakConfig) scopes() []string {
	if len(c.Scopes) == 0 {
		return []string{oidc.ScopeOpenID, "profile", "email"}
	}
	return c.Scopes
}

// KeycloakProvider signs users in through a Keycloak realm using the authorization code flow
type KeycloakProvider struct {
	config       KeycloakConfig
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
}

// NewKeycloakProvider discovers the realm at config.IssuerURL
func NewKeycloakProvider(ctx context.Context, config KeycloakConfig) (*KeycloakProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keycloak config: %w", err)
	}

	provider, err := oidc.NewProvider(ctx, config.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return &KeycloakProvider{
		config:   config,
		verifier: provider.Verifier(&oidc.Config{ClientID: config.ClientID}),
		oauth2Config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  config.RedirectURL,
			Scopes:       config.scopes(),
		},
	}, nil
}

// Info returns the provider's sign-in page entry
func (p *KeycloakProvider) Info() ProviderInfo {
	return ProviderInfo{
		ID:          KeycloakProviderID,
		Name:        "Keycloak",
		Type:        auth.ProviderTypeOAuth,
		SignInURL:   "/api/auth/signin/" + KeycloakProviderID,
		CallbackURL: "/api/auth/callback/" + KeycloakProviderID,
	}
}

// InitiateLogin redirects to the Keycloak authorization endpoint
func (p *KeycloakProvider) InitiateLogin(w http.ResponseWriter, r *http.Request, state string) {
	http.Redirect(w, r, p.oauth2Config.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback exchanges the authorization code and verifies the ID token
func (p *KeycloakProvider) HandleCallback(ctx context.Context, r *http.Request) (*auth.User, error) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, errParam)
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return nil, fmt.Errorf("missing authorization code")
	}

	oauth2Token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("missing id_token in response")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
		Email             string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	name := claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}

	authorization := "Bearer " + oauth2Token.AccessToken
	return &auth.User{
		ID:            idToken.Subject,
		Name:          name,
		Email:         claims.Email,
		Authorization: &authorization,
	}, nil
}
