package sso

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/platinummonkey/kafka-console/pkg/auth"
)

// Provider defines the interface for credential sign-in providers
type Provider interface {
	// ID returns the provider kind id (oauth-token, scram, anonymous)
	ID() string

	// Name returns the label shown on the sign-in page
	Name() string

	// Type returns how the provider is driven
	Type() auth.ProviderType

	// ClusterID returns the cluster this provider signs users in to
	ClusterID() string

	// ClusterName returns the cluster's display name
	ClusterName() string

	// Credentials describes the sign-in form fields
	Credentials() []auth.CredentialField

	// Authorize checks creds and returns the signed-in user
	Authorize(ctx context.Context, creds auth.Credentials) (*auth.User, error)
}

// ProviderFactory creates providers from resolved provider configurations
type ProviderFactory struct {
	backendURL string
	client     *http.Client
}

// NewProviderFactory creates a new provider factory.
// backendURL is the console API that SCRAM credentials are checked against.
func NewProviderFactory(backendURL string, timeout time.Duration) *ProviderFactory {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProviderFactory{
		backendURL: strings.TrimRight(backendURL, "/"),
		client:     &http.Client{Timeout: timeout},
	}
}

// CreateProvider creates a provider instance from configuration
func (f *ProviderFactory) CreateProvider(config auth.ProviderConfig) (Provider, error) {
	switch config.Kind {
	case auth.KindOAuthToken:
		return NewOAuthTokenProvider(config, f.client), nil

	case auth.KindScramBasic:
		if config.ClusterID == "" {
			return nil, fmt.Errorf("%w: scram provider requires a cluster id", ErrProviderMisconfigured)
		}
		return NewScramProvider(config, f.backendURL, f.client), nil

	case auth.KindAnonymous:
		return NewAnonymousProvider(config), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, config.Kind)
	}
}

type providerBase struct {
	config auth.ProviderConfig
}

func (p providerBase) ID() string { return p.config.ID }

func (p providerBase) Name() string {
	if p.config.ClusterName == "" {
		return p.config.Name
	}
	return p.config.ClusterName + " (" + p.config.Name + ")"
}

func (p providerBase) Type() auth.ProviderType { return p.config.Type }

func (p providerBase) ClusterID() string { return p.config.ClusterID }

func (p providerBase) ClusterName() string { return p.config.ClusterName }

func (p providerBase) Credentials() []auth.CredentialField {
	fields := make([]auth.CredentialField, len(p.config.Credentials))
	copy(fields, p.config.Credentials)
	return fields
}

// requireCredentials returns the named values or ErrInvalidCredentials if any is blank
func requireCredentials(creds auth.Credentials, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		if strings.TrimSpace(creds[name]) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidCredentials, name)
		}
		values[i] = creds[name]
	}
	return values, nil
}
