package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/auth/domain"
	"github.com/clinicore/clinicore/pkg/jwtx"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)

	user := seedUser(t, st, "alice", "alice@clinic.test", "s3cret-passphrase", domain.RoleDoctor)

	t.Run("valid credentials mint a pair", func(t *testing.T) {
		pair, err := svc.Login(ctx, "alice@clinic.test", "s3cret-passphrase")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.Equal(t, "Bearer", pair.TokenType)
		require.Equal(t, time.Minute, pair.ExpiresIn)

		actor, err := svc.Validate(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, actor.ID)
		require.Equal(t, domain.RoleDoctor, actor.Role)
		require.Equal(t, "alice", actor.Username)
	})

	t.Run("stamps last login", func(t *testing.T) {
		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLoginAt)
	})

	t.Run("wrong password is opaque", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@clinic.test", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@clinic.test", "s3cret-passphrase")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account is the same error", func(t *testing.T) {
		inactive := seedUser(t, st, "mallory", "mallory@clinic.test", "another-pass", domain.RolePatient)
		inactive.Active = false
		require.NoError(t, st.Users().UpdateUser(ctx, inactive))

		_, err := svc.Login(ctx, "mallory@clinic.test", "another-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateRejectsRefreshToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	seedUser(t, st, "bob", "bob@clinic.test", "bobs-password", domain.RolePatient)

	pair, err := svc.Login(ctx, "bob@clinic.test", "bobs-password")
	require.NoError(t, err)

	// A refresh token must never pass as an access token, even though both
	// carry valid signatures from the same key.
	_, err = svc.Validate(pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateExpiredToken(t *testing.T) {
	st := newTestStore(t)
	svc := newTestTokenService(t, st)

	claims := jwtx.NewClaims(jwtx.TokenTypeAccess, "user-id", "patient", "bob",
		svc.Issuer, time.Minute, time.Now().Add(-time.Hour))
	token, err := svc.KeyManager.Signer.Sign(claims)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	user := seedUser(t, st, "carol", "carol@clinic.test", "carols-password", domain.RoleNurse)

	pair, err := svc.Login(ctx, "carol@clinic.test", "carols-password")
	require.NoError(t, err)

	t.Run("live refresh token mints a fresh access token", func(t *testing.T) {
		access, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)

		actor, err := svc.Validate(access)
		require.NoError(t, err)
		require.Equal(t, user.ID, actor.ID)
		require.Equal(t, domain.RoleNurse, actor.Role)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.AccessToken)
		require.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-jwt")
		require.ErrorIs(t, err, ErrTokenMalformed)
	})
}

func TestRefreshCarriesClaimsAsMinted(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	user := seedUser(t, st, "dave", "dave@clinic.test", "daves-password", domain.RolePatient)

	pair, err := svc.Login(ctx, "dave@clinic.test", "daves-password")
	require.NoError(t, err)

	// Deleting the user does not stop refresh: claims are fixed at mint
	// time and the store is only consulted for revocation.
	require.NoError(t, st.Users().DeleteUser(ctx, user.ID))

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	actor, err := svc.Validate(access)
	require.NoError(t, err)
	require.Equal(t, user.ID, actor.ID)
	require.Equal(t, domain.RolePatient, actor.Role)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	seedUser(t, st, "erin", "erin@clinic.test", "erins-password", domain.RolePatient)

	pair, err := svc.Login(ctx, "erin@clinic.test", "erins-password")
	require.NoError(t, err)

	t.Run("revokes the refresh token", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

		_, err := svc.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("second logout is a no-op", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	})

	t.Run("access token survives logout until expiry", func(t *testing.T) {
		_, err := svc.Validate(pair.AccessToken)
		require.NoError(t, err)
	})

	t.Run("expired refresh token is a silent no-op", func(t *testing.T) {
		claims := jwtx.NewClaims(jwtx.TokenTypeRefresh, "user-id", "patient", "erin",
			svc.Issuer, time.Minute, time.Now().Add(-time.Hour))
		token, err := svc.KeyManager.Signer.Sign(claims)
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, token))

		revoked, err := st.RevokedTokens().IsRevoked(ctx, claims.ID)
		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("malformed token fails", func(t *testing.T) {
		require.ErrorIs(t, svc.Logout(ctx, "garbage"), ErrTokenMalformed)
	})

	t.Run("access token cannot be logged out", func(t *testing.T) {
		require.ErrorIs(t, svc.Logout(ctx, pair.AccessToken), ErrTokenMalformed)
	})
}
