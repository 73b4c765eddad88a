package auth_test

import (
	"testing"

	"github.com/clinicore/clinicore/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterLoginRefreshLogout walks the full session lifecycle:
// 1. Register a patient account
// 2. Login with the new credentials
// 3. Read the own profile
// 4. Refresh the access token
// 5. Logout and verify the refresh token is dead
func TestRegisterLoginRefreshLogout(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	health, err := client.Livez(t.Context())
	assertHealthy(t, health, err)
	health, err = client.Readyz(t.Context())
	assertHealthy(t, health, err)

	user := registerPatient(t, client, "alice", "alice@clinicore.test", "Alice123!")
	t.Logf("Registered patient %s", user.ID)

	tokens, err := client.LoginTokens(t.Context(), "alice@clinicore.test", "Alice123!")
	require.NoError(t, err)
	assertTokenResponse(t, tokens)
	require.NotEmpty(t, tokens.RefreshToken, "Login should return a refresh token")

	session, err := client.Login(t.Context(), "alice@clinicore.test", "Alice123!")
	require.NoError(t, err)

	me, err := session.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, "alice", me.Username)
	require.Equal(t, "patient", me.Role)
	require.NotNil(t, me.LastLoginAt, "Login should stamp last_login_at")

	refreshed, err := client.Refresh(t.Context(), tokens.RefreshToken)
	require.NoError(t, err)
	assertTokenResponse(t, refreshed)
	require.NotEqual(t, tokens.AccessToken, refreshed.AccessToken, "Refresh should mint a fresh access token")
	require.Empty(t, refreshed.RefreshToken, "Refresh should not rotate the refresh token")

	require.NoError(t, client.Logout(t.Context(), tokens.RefreshToken))

	_, err = client.Refresh(t.Context(), tokens.RefreshToken)
	assertAPIError(t, err, authsdk.ErrorCodeTokenRevoked, "Refresh after logout should fail")

	// Logout is idempotent
	require.NoError(t, client.Logout(t.Context(), tokens.RefreshToken))
}

// TestProfileSelfManagement verifies a patient can update its own profile
// and that the role never changes along the way.
func TestProfileSelfManagement(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	registerPatient(t, client, "bob", "bob@clinicore.test", "Bob12345!")

	session, err := client.Login(t.Context(), "bob@clinicore.test", "Bob12345!")
	require.NoError(t, err)

	firstName := "Bob"
	phone := "+61 400 111 222"
	updated, err := session.UpdateMe(t.Context(), authsdk.UpdateUserRequest{
		FirstName:   &firstName,
		PhoneNumber: &phone,
	})
	require.NoError(t, err)
	require.Equal(t, "Bob", updated.FirstName)
	require.Equal(t, "+61 400 111 222", updated.PhoneNumber)
	require.Equal(t, "patient", updated.Role, "Profile updates never change the role")
	require.Equal(t, "bob", updated.Username, "Unnamed fields stay untouched")
}
