package sso

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/platinummonkey/kafka-console/pkg/auth"
)

// OAuthTokenProvider signs in with OAuth client credentials exchanged at the cluster's
// token endpoint. The access token becomes the user's bearer authorization.
type OAuthTokenProvider struct {
	providerBase
	client *http.Client
}

// NewOAuthTokenProvider creates a new OAuth token provider
func NewOAuthTokenProvider(config auth.ProviderConfig, client *http.Client) *OAuthTokenProvider {
	return &OAuthTokenProvider{
		providerBase: providerBase{config: config},
		client:       client,
	}
}

// TokenURL returns the token endpoint credentials are exchanged at
func (p *OAuthTokenProvider) TokenURL() string {
	return p.config.TokenURL
}

// Authorize exchanges clientId and clientSecret for an access token
func (p *OAuthTokenProvider) Authorize(ctx context.Context, creds auth.Credentials) (*auth.User, error) {
	if p.config.TokenURL == "" || p.config.TokenURL == auth.PlaceholderTokenURL {
		return nil, fmt.Errorf("%w: cluster %q has no OAuth token URL", ErrProviderMisconfigured, p.config.ClusterID)
	}

	values, err := requireCredentials(creds, "clientId", "clientSecret")
	if err != nil {
		return nil, err
	}
	clientID, clientSecret := values[0], values[1]

	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     p.config.TokenURL,
	}

	if p.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			retrieveErr.Response.StatusCode >= 400 && retrieveErr.Response.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("failed to exchange client credentials: %w", err)
	}

	authorization := "Bearer " + token.AccessToken
	return &auth.User{
		ID:            clientID,
		Name:          clientID,
		Authorization: &authorization,
	}, nil
}
