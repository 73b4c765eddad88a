package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/clinicore/clinicore/internal/auth/domain"
	"github.com/clinicore/clinicore/internal/auth/store"
	"github.com/clinicore/clinicore/internal/auth/store/drivers/sqlite"
	"github.com/clinicore/clinicore/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func newUser(username, email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         domain.RolePatient,
		Active:       true,
	}
}

func TestCreateUserDuplicateMapping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Users().CreateUser(ctx, newUser("alice", "alice@x.com")))

	t.Run("duplicate email", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, newUser("bob", "alice@x.com"))
		require.ErrorIs(t, err, store.ErrDuplicateEmail)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, newUser("alice", "bob@x.com"))
		require.ErrorIs(t, err, store.ErrDuplicateUsername)
	})
}

func TestGetUserByEmailExactMatch(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.Users().CreateUser(ctx, newUser("alice", "alice@x.com")))

	got, err := st.Users().GetUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, domain.RolePatient, got.Role)
	require.True(t, got.Active)
	require.Nil(t, got.LastLoginAt)

	_, err = st.Users().GetUserByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateUserNeverTouchesRole(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newUser("alice", "alice@x.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	u.Role = domain.RoleAdmin // must be ignored by UpdateUser
	u.Profile.PhoneNumber = "555-0100"
	require.NoError(t, st.Users().UpdateUser(ctx, u))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RolePatient, got.Role)
	require.Equal(t, "555-0100", got.Profile.PhoneNumber)
}

func TestUpdateLastLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := newUser("alice", "alice@x.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))
	require.NoError(t, st.Users().UpdateLastLogin(ctx, u.ID))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
}

func TestListUsersOrdered(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, st.Users().CreateUser(ctx, newUser("alice", "alice@x.com")))
	require.NoError(t, st.Users().CreateUser(ctx, newUser("bob", "bob@x.com")))

	users, err := st.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	empty, err = st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	rec := domain.RevokedToken{JTI: idx.New().String(), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, st.RevokedTokens().Revoke(ctx, rec))
	require.NoError(t, st.RevokedTokens().Revoke(ctx, rec))

	revoked, err := st.RevokedTokens().IsRevoked(ctx, rec.JTI)
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = st.RevokedTokens().IsRevoked(ctx, "some-other-jti")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestDeleteExpiredRevocations(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	stale := domain.RevokedToken{JTI: "stale", ExpiresAt: time.Now().Add(-time.Hour)}
	live := domain.RevokedToken{JTI: "live", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, st.RevokedTokens().Revoke(ctx, stale))
	require.NoError(t, st.RevokedTokens().Revoke(ctx, live))

	require.NoError(t, st.RevokedTokens().DeleteExpired(ctx))

	revoked, err := st.RevokedTokens().IsRevoked(ctx, "stale")
	require.NoError(t, err)
	require.False(t, revoked, "expired revocations are garbage collected")

	revoked, err = st.RevokedTokens().IsRevoked(ctx, "live")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	sentinel := store.ErrDuplicateEmail
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, newUser("alice", "alice@x.com")); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = st.Users().GetUserByEmail(ctx, "alice@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
