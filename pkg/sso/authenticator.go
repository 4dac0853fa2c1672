package sso

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/kafka-console/pkg/auth"
	"github.com/platinummonkey/kafka-console/pkg/kafka"
	"github.com/platinummonkey/kafka-console/pkg/observability"
)

// Options configures an Authenticator
type Options struct {
	Registry    kafka.Registry
	Factory     *ProviderFactory
	Codec       *auth.TokenCodec
	Revocations RevocationStore
	// Keycloak is optional
	Keycloak *KeycloakProvider
	Logger   *observability.Logger
	Metrics  *observability.Metrics
}

// Authenticator signs users in to clusters and turns session tokens into sessions
type Authenticator struct {
	registry    kafka.Registry
	resolver    *auth.Resolver
	factory     *ProviderFactory
	codec       *auth.TokenCodec
	revocations RevocationStore
	keycloak    *KeycloakProvider
	logger      *observability.Logger
	metrics     *observability.Metrics
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(opts Options) (*Authenticator, error) {
	if opts.Registry == nil {
		return nil, errors.New("cluster registry is required")
	}
	if opts.Factory == nil {
		return nil, errors.New("provider factory is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("token codec is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Revocations == nil {
		opts.Revocations = NewMemoryRevocationStore(10000, opts.Codec.MaxAge())
	}

	logger := opts.Logger.WithField("module", "auth")
	return &Authenticator{
		registry:    opts.Registry,
		resolver:    auth.NewResolver(logger, opts.Metrics),
		factory:     opts.Factory,
		codec:       opts.Codec,
		revocations: opts.Revocations,
		keycloak:    opts.Keycloak,
		logger:      logger,
		metrics:     opts.Metrics,
	}, nil
}

// Keycloak returns the Keycloak provider, or nil when it is not configured
func (a *Authenticator) Keycloak() *KeycloakProvider {
	return a.keycloak
}

// Providers returns one provider per known cluster, in registry order.
// A registry failure is returned as is and nothing is resolved.
func (a *Authenticator) Providers(ctx context.Context) ([]Provider, error) {
	clusters, err := a.registry.FetchClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clusters: %w", err)
	}
	return a.providersFor(ctx, clusters)
}

func (a *Authenticator) providersFor(ctx context.Context, clusters []kafka.Cluster) ([]Provider, error) {
	strategies := a.resolver.ResolveAll(ctx, clusters)

	providers := make([]Provider, len(strategies))
	for i, strategy := range strategies {
		config := strategy.ProviderConfig()
		config.ClusterID = clusters[i].ID
		config.ClusterName = clusters[i].DisplayName()

		provider, err := a.factory.CreateProvider(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider for cluster %q: %w", clusters[i].ID, err)
		}
		providers[i] = provider
	}
	return providers, nil
}

// Provider returns the provider of one cluster
func (a *Authenticator) Provider(ctx context.Context, clusterID string) (Provider, error) {
	cluster, err := kafka.GetCluster(ctx, a.registry, clusterID)
	if err != nil {
		return nil, err
	}
	providers, err := a.providersFor(ctx, []kafka.Cluster{*cluster})
	if err != nil {
		return nil, err
	}
	return providers[0], nil
}

// Login signs a user in to clusterID with creds
func (a *Authenticator) Login(ctx context.Context, clusterID string, creds auth.Credentials) (*LoginResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "sso.Login")
	defer span.End()
	span.SetAttributes(attribute.String("console.cluster", clusterID))

	provider, err := a.Provider(ctx, clusterID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return a.LoginWith(ctx, provider, creds)
}

// LoginWith signs a user in through provider
func (a *Authenticator) LoginWith(ctx context.Context, provider Provider, creds auth.Credentials) (*LoginResult, error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("console.provider", provider.ID()))

	user, err := provider.Authorize(ctx, creds)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return a.Issue(user, provider.ID(), provider.ClusterID())
}

// LoginWithKeycloak completes a Keycloak sign-in for an already verified user
func (a *Authenticator) LoginWithKeycloak(user *auth.User) (*LoginResult, error) {
	return a.Issue(user, KeycloakProviderID, "")
}

// Issue creates and signs a session token for user and builds its session.
// The token hook runs on the fresh token before it is signed, and the session is built
// from that same token.
func (a *Authenticator) Issue(user *auth.User, providerID, clusterID string) (*LoginResult, error) {
	token := a.codec.NewToken(user, providerID, clusterID)
	token = auth.OnTokenIssue(token, user)

	raw, err := a.codec.Encode(token)
	if err != nil {
		return nil, err
	}

	session := auth.OnSessionBuild(auth.NewSession(token), token)

	a.logger.WithFields(map[string]interface{}{
		"provider":      providerID,
		"cluster":       clusterID,
		"subject":       token.Subject,
		"authorization": token.Authorization != nil,
	}).Debug("session issued")

	return &LoginResult{
		Subject:   token.Subject,
		Token:     raw,
		Session:   session,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

func (a *Authenticator) decode(ctx context.Context, raw string) (auth.Token, error) {
	token, err := a.codec.Decode(raw)
	if err != nil {
		return auth.Token{}, err
	}

	revoked, err := a.revocations.IsRevoked(ctx, token.ID)
	if err != nil {
		return auth.Token{}, err
	}
	if revoked {
		return auth.Token{}, ErrSessionRevoked
	}
	return token, nil
}

// Session returns the session for a raw session token
func (a *Authenticator) Session(ctx context.Context, raw string) (auth.Session, error) {
	token, err := a.decode(ctx, raw)
	if err != nil {
		return auth.Session{}, err
	}

	token = auth.OnTokenIssue(token, nil)
	return auth.OnSessionBuild(auth.NewSession(token), token), nil
}

// SignOut revokes a raw session token until it expires.
// It returns the decoded token so callers can audit who signed out.
func (a *Authenticator) SignOut(ctx context.Context, raw string) (auth.Token, error) {
	token, err := a.decode(ctx, raw)
	if err != nil {
		return auth.Token{}, err
	}

	if err := a.revocations.Revoke(ctx, token.ID, time.Until(token.ExpiresAt)); err != nil {
		return auth.Token{}, err
	}
	a.metrics.ObserveRevocation()

	return token, nil
}
