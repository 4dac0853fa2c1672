package sso

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"

	"github.com/platinummonkey/kafka-console/pkg/auth"
)

// ScramProvider signs in with a username and password that the console API checks against
// one Kafka cluster. The credential becomes the user's basic authorization.
type ScramProvider struct {
	providerBase
	backendURL string
	client     *http.Client
}

// NewScramProvider creates a new SCRAM provider
func NewScramProvider(config auth.ProviderConfig, backendURL string, client *http.Client) *ScramProvider {
	return &ScramProvider{
		providerBase: providerBase{config: config},
		backendURL:   backendURL,
		client:       client,
	}
}

// Authorize verifies username and password by reading the cluster through the console API
func (p *ScramProvider) Authorize(ctx context.Context, creds auth.Credentials) (*auth.User, error) {
	values, err := requireCredentials(creds, "username", "password")
	if err != nil {
		return nil, err
	}
	username, password := values[0], values[1]

	if p.backendURL == "" {
		return nil, fmt.Errorf("%w: no backend to verify cluster %q credentials", ErrProviderMisconfigured, p.config.ClusterID)
	}

	authorization := "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))

	endpoint := p.backendURL + "/api/kafkas/" + url.PathEscape(p.config.ClusterID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: cluster %q rejected user %q", ErrInvalidCredentials, p.config.ClusterID, username)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("credential verification failed with status %d", resp.StatusCode)
	}

	return &auth.User{
		ID:            username,
		Name:          username,
		Authorization: &authorization,
	}, nil
}
