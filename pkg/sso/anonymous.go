package sso

import (
	"context"

	"github.com/platinummonkey/kafka-console/pkg/auth"
)

// AnonymousUserID is the subject of every anonymous session
const AnonymousUserID = "anonymous"

// AnonymousProvider lets anyone in without credentials or authorization
type AnonymousProvider struct {
	providerBase
}

// NewAnonymousProvider creates a new anonymous provider
func NewAnonymousProvider(config auth.ProviderConfig) *AnonymousProvider {
	return &AnonymousProvider{providerBase: providerBase{config: config}}
}

// Authorize always succeeds
func (p *AnonymousProvider) Authorize(ctx context.Context, creds auth.Credentials) (*auth.User, error) {
	return &auth.User{ID: AnonymousUserID, Name: "Anonymous"}, nil
}
