package auth

// StrategyKind identifies an authentication strategy variant
type StrategyKind string

const (
	KindOAuthToken StrategyKind = "oauth-token"
	KindScramBasic StrategyKind = "scram"
	KindAnonymous  StrategyKind = "anonymous"
)

// Strategy is how users of one cluster prove their identity.
// The set of implementations is closed: OAuthTokenStrategy, ScramBasicStrategy and
// AnonymousStrategy.
type Strategy interface {
	Kind() StrategyKind
	// ProviderConfig returns the sign-in option for this strategy
	ProviderConfig() ProviderConfig
	strategy()
}

// OAuthTokenStrategy exchanges OAuth client credentials at TokenURL
type OAuthTokenStrategy struct {
	TokenURL string
}

func (OAuthTokenStrategy) Kind() StrategyKind { return KindOAuthToken }

func (s OAuthTokenStrategy) ProviderConfig() ProviderConfig {
	return ProviderConfig{
		ID:       string(KindOAuthToken),
		Name:     "OAuth client credentials",
		Type:     ProviderTypeCredentials,
		Kind:     KindOAuthToken,
		TokenURL: s.TokenURL,
		Credentials: []CredentialField{
			{Name: "clientId", Label: "Client ID", Type: "text"},
			{Name: "clientSecret", Label: "Client Secret", Type: "password"},
		},
	}
}

func (OAuthTokenStrategy) strategy() {}

// ScramBasicStrategy verifies a username and password against one cluster
type ScramBasicStrategy struct {
	ClusterID string
}

func (ScramBasicStrategy) Kind() StrategyKind { return KindScramBasic }

func (s ScramBasicStrategy) ProviderConfig() ProviderConfig {
	return ProviderConfig{
		ID:        string(KindScramBasic),
		Name:      "SCRAM-SHA-512",
		Type:      ProviderTypeCredentials,
		Kind:      KindScramBasic,
		ClusterID: s.ClusterID,
		Credentials: []CredentialField{
			{Name: "username", Label: "Username", Type: "text"},
			{Name: "password", Label: "Password", Type: "password"},
		},
	}
}

func (ScramBasicStrategy) strategy() {}

// AnonymousStrategy lets anyone in without a credential
type AnonymousStrategy struct{}

func (AnonymousStrategy) Kind() StrategyKind { return KindAnonymous }

func (AnonymousStrategy) ProviderConfig() ProviderConfig {
	return ProviderConfig{
		ID:   string(KindAnonymous),
		Name: "Anonymous",
		Type: ProviderTypeCredentials,
		Kind: KindAnonymous,
	}
}

func (AnonymousStrategy) strategy() {}
