package sso

import (
	"errors"
	"time"

	"github.com/platinummonkey/kafka-console/pkg/auth"
)

var (
	// ErrInvalidCredentials is returned when a provider rejects the submitted credentials
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownProvider is returned for a provider kind the factory cannot build
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrProviderMisconfigured is returned when a provider cannot be used as configured
	ErrProviderMisconfigured = errors.New("provider misconfigured")
	// ErrSessionRevoked is returned for a session token that was signed out
	ErrSessionRevoked = errors.New("session revoked")
)

// KeycloakProviderID is the id of the optional Keycloak sign-in option
const KeycloakProviderID = "keycloak"

// ProviderInfo is one entry of the sign-in page's provider list
type ProviderInfo struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Type        auth.ProviderType      `json:"type"`
	ClusterID   string                 `json:"clusterId,omitempty"`
	ClusterName string                 `json:"clusterName,omitempty"`
	Credentials []auth.CredentialField `json:"credentials,omitempty"`
	SignInURL   string                 `json:"signinUrl"`
	CallbackURL string                 `json:"callbackUrl"`
}

// LoginResult is the outcome of a successful sign-in
type LoginResult struct {
	Subject   string       `json:"-"`
	Token     string       `json:"-"`
	Session   auth.Session `json:"session"`
	ExpiresAt time.Time    `json:"-"`
}
