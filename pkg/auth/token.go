package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer is the iss claim of every session token
const TokenIssuer = "kafka-console"

// ErrInvalidToken is returned for session tokens that fail parsing or validation
var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	jwt.RegisteredClaims
	Name          string  `json:"name,omitempty"`
	Email         string  `json:"email,omitempty"`
	Provider      string  `json:"provider"`
	ClusterID     string  `json:"cluster,omitempty"`
	Authorization *string `json:"authorization,omitempty"`
}

// TokenCodec issues, signs and verifies HS256 session tokens
type TokenCodec struct {
	secret []byte
	maxAge time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

// NewTokenCodec creates a codec signing with secret. Tokens live for maxAge.
func NewTokenCodec(secret string, maxAge time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("session token secret is required")
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("session max age must be positive, got %s", maxAge)
	}

	return &TokenCodec{
		secret: []byte(secret),
		maxAge: maxAge,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(TokenIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
		now: time.Now,
	}, nil
}

// MaxAge returns how long issued tokens stay valid
func (c *TokenCodec) MaxAge() time.Duration {
	return c.maxAge
}

// NewToken starts a token for user signed in through provider.
// The token carries no authorization until OnTokenIssue runs.
func (c *TokenCodec) NewToken(user *User, provider, clusterID string) Token {
	issuedAt := c.now().Truncate(time.Second)
	token := Token{
		ID:        uuid.NewString(),
		Provider:  provider,
		ClusterID: clusterID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(c.maxAge),
	}
	if user != nil {
		token.Subject = user.ID
		token.Name = user.Name
		token.Email = user.Email
	}
	return token
}

// Encode signs token
func (c *TokenCodec) Encode(token Token) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        token.ID,
			Subject:   token.Subject,
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(token.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
		},
		Name:          token.Name,
		Email:         token.Email,
		Provider:      token.Provider,
		ClusterID:     token.ClusterID,
		Authorization: token.Authorization,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Decode verifies raw and returns its payload. Every failure wraps ErrInvalidToken.
func (c *TokenCodec) Decode(raw string) (Token, error) {
	claims := &sessionClaims{}
	parsed, err := c.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Token{}, ErrInvalidToken
	}
	if claims.ID == "" {
		return Token{}, fmt.Errorf("%w: missing token id", ErrInvalidToken)
	}

	token := Token{
		ID:            claims.ID,
		Subject:       claims.Subject,
		Name:          claims.Name,
		Email:         claims.Email,
		Provider:      claims.Provider,
		ClusterID:     claims.ClusterID,
		Authorization: claims.Authorization,
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}
	return token, nil
}

// NewSession builds the session shell for token, without authorization
func NewSession(token Token) Session {
	return Session{
		User: SessionUser{
			Name:  token.Name,
			Email: token.Email,
		},
		Provider:  token.Provider,
		ClusterID: token.ClusterID,
		Expires:   token.ExpiresAt,
	}
}
