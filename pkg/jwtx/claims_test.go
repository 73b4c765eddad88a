package jwtx_test

import (
	"testing"
	"time"

	"github.com/clinicore/clinicore/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "clinicore-auth"},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("clinicore-auth"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		require.ErrorIs(t, c.ValidateIssuer("someone-else"), jwtx.ErrIssuer)
	})
}

func TestValidateTokenType(t *testing.T) {
	c := &jwtx.Claims{TokenType: jwtx.TokenTypeRefresh}

	require.NoError(t, c.ValidateTokenType(jwtx.TokenTypeRefresh))
	require.ErrorIs(t, c.ValidateTokenType(jwtx.TokenTypeAccess), jwtx.ErrTokenType)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		c := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		c := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			},
		}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := &jwtx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("no exp or nbf", func(t *testing.T) {
		require.NoError(t, (&jwtx.Claims{}).ValidateExpiry())
	})
}

func TestNewClaimsFreshJTI(t *testing.T) {
	now := time.Now()
	a := jwtx.NewClaims(jwtx.TokenTypeAccess, "u", "patient", "", "iss", time.Minute, now)
	b := jwtx.NewClaims(jwtx.TokenTypeAccess, "u", "patient", "", "iss", time.Minute, now)
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID, "every minted token needs a unique jti")
}
