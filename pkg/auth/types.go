package auth

import "time"

// User is the identity returned by a provider after a successful sign-in
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	// Authorization is the credential the backend expects for this user, carried opaquely.
	// nil means the provider granted no credential.
	Authorization *string `json:"authorization,omitempty"`
}

// Token is the signed session token payload
type Token struct {
	ID        string    `json:"jti"`
	Subject   string    `json:"sub"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Provider  string    `json:"provider"`
	ClusterID string    `json:"cluster,omitempty"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`

	Authorization *string `json:"authorization,omitempty"`
}

// SessionUser is the user summary exposed in a session
type SessionUser struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session is what the rest of the console sees for a signed-in user
type Session struct {
	User      SessionUser `json:"user"`
	Provider  string      `json:"provider"`
	ClusterID string      `json:"clusterId,omitempty"`
	Expires   time.Time   `json:"expires"`

	Authorization *string `json:"authorization,omitempty"`
}

// Credentials are the form values submitted to a credentials provider
type Credentials map[string]string

// CredentialField describes one input on a provider's sign-in form
type CredentialField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// ProviderType tells the sign-in page how a provider is driven
type ProviderType string

const (
	// ProviderTypeCredentials providers accept a posted form
	ProviderTypeCredentials ProviderType = "credentials"
	// ProviderTypeOAuth providers redirect the browser to an identity provider
	ProviderTypeOAuth ProviderType = "oauth"
)

// ProviderConfig is the sign-in option produced for one cluster
type ProviderConfig struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        ProviderType      `json:"type"`
	Kind        StrategyKind      `json:"kind"`
	TokenURL    string            `json:"-"`
	ClusterID   string            `json:"clusterId,omitempty"`
	ClusterName string            `json:"clusterName,omitempty"`
	Credentials []CredentialField `json:"credentials,omitempty"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
