package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clinicore/clinicore/internal/auth/domain"
	"github.com/clinicore/clinicore/internal/auth/store"
	"github.com/clinicore/clinicore/pkg/cryptox"
	"github.com/clinicore/clinicore/pkg/jwtx"
	"github.com/clinicore/clinicore/pkg/slogx"
)

// TokenService owns the session token lifecycle: issue on login, stateless
// validation, refresh, and revoke-on-logout. Access and refresh tokens are
// both signed JWTs; claims are fixed at mint time and never re-read from the
// user store, so a role change only takes effect once the session's refresh
// token expires and the user logs in again.
type TokenService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login verifies the credential for the identity matching email and mints a
// token pair. Unknown email, wrong password, and a deactivated account all
// return the same opaque ErrInvalidCredentials; the unknown-email path burns
// an equivalent hash verification so the paths are not distinguishable by
// timing either.
func (s *TokenService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	log := slogx.FromContext(ctx)
	now := time.Now()

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.DummyVerify(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("login credential verification failed", slog.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		log.Info("login attempt for inactive account", slog.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.mint(jwtx.TokenTypeAccess, user, s.AccessTTL, now)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.mint(jwtx.TokenTypeRefresh, user, s.RefreshTTL, now)
	if err != nil {
		return nil, err
	}

	// Stamp last_login_at. Best effort: a failed stamp should not cost the
	// user their session.
	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID); err != nil {
		log.Warn("failed to stamp last login", slog.String("user_id", user.ID), slog.Any("error", err))
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// Validate checks the access token's signature and expiry and resolves it to
// an actor. It never touches the store, so it is safe to call from any number
// of concurrent requests without contention.
func (s *TokenService) Validate(accessToken string) (*Actor, error) {
	claims, err := s.verify(accessToken, jwtx.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &Actor{
		ID:       claims.Subject,
		Role:     domain.Role(claims.Role),
		Username: claims.Username,
	}, nil
}

// Refresh mints a new access token from a live refresh token. The identity
// and role claims are carried over from the refresh token as minted, not
// re-resolved against the store; only the revocation set is consulted.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.verify(refreshToken, jwtx.TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	revoked, err := s.Store.RevokedTokens().IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	now := time.Now()
	fresh := jwtx.NewClaims(
		jwtx.TokenTypeAccess,
		claims.Subject,
		claims.Role,
		claims.Username,
		s.Issuer,
		s.AccessTTL,
		now,
	)
	return s.KeyManager.Signer.Sign(fresh)
}

// Logout revokes the refresh token by adding its jti to the durable
// revocation set. Revoking an already-revoked or already-expired token is
// not an error; only a structurally malformed token fails.
func (s *TokenService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.KeyManager.Verifier.Verify(refreshToken)
	if err != nil && !errors.Is(err, jwtx.ErrExpired) {
		return ErrTokenMalformed
	}
	if typErr := claims.ValidateTokenType(jwtx.TokenTypeRefresh); typErr != nil {
		return ErrTokenMalformed
	}
	if errors.Is(err, jwtx.ErrExpired) {
		// Natural expiry already makes the token unusable; nothing to record.
		return nil
	}

	return s.Store.RevokedTokens().Revoke(ctx, domain.RevokedToken{
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (s *TokenService) mint(tokenType string, user domain.User, ttl time.Duration, now time.Time) (string, error) {
	claims := jwtx.NewClaims(
		tokenType,
		user.ID,
		user.Role.String(),
		user.Username,
		s.Issuer,
		ttl,
		now,
	)
	return s.KeyManager.Signer.Sign(claims)
}

// verify maps jwtx verification failures onto the service error kinds:
// expiry stays distinguishable from everything else for diagnostics, while
// bad signatures, wrong issuers and wrong token types are all malformed.
func (s *TokenService) verify(token, wantType string) (jwtx.Claims, error) {
	claims, err := s.KeyManager.Verifier.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return jwtx.Claims{}, ErrTokenExpired
		}
		return jwtx.Claims{}, ErrTokenMalformed
	}
	if err := claims.ValidateTokenType(wantType); err != nil {
		return jwtx.Claims{}, ErrTokenMalformed
	}
	return claims, nil
}
