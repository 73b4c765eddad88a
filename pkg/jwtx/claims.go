package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicore/clinicore/pkg/idx"
)

// Default token TTLs. Short-lived access tokens limit the blast radius of a
// leaked bearer token; the refresh TTL bounds how long a session can live
// without re-authenticating.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token type values carried in the "typ" claim. An access token can never be
// used where a refresh token is expected and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrTokenType   = errors.New("jwtx: unexpected token type")
)

// Claims are the claims embedded in both access and refresh tokens. The
// subject is the user id; role and username are fixed at mint time.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType distinguishes access from refresh tokens.
	TokenType string `json:"typ"`

	// Role is the user's role name at mint time.
	Role string `json:"role"`

	// Username for the authenticated user, for diagnostics and display.
	Username string `json:"username,omitempty"`
}

// NewClaims builds minimally-correct claims for the given token type. The jti
// is a fresh ULID so refresh tokens can be individually revoked.
func NewClaims(tokenType, subject, role, username, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		TokenType: tokenType,
		Role:      role,
		Username:  username,
	}
}

// ValidateIssuer checks the iss claim against the expected value. An empty
// expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateTokenType ensures the token was minted for the expected purpose.
func (c *Claims) ValidateTokenType(expected string) error {
	if c.TokenType != expected {
		return ErrTokenType
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used before
// it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
