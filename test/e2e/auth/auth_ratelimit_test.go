package auth_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/clinicore/clinicore/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit verifies the strict per-IP limit on the login endpoint
// with the production rate limit profiles in place.
func TestLoginRateLimit(t *testing.T) {
	baseURL, cleanup := setupAuthContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	// Burn through the strict budget with bad credentials; well before 20
	// attempts the limiter must start rejecting with 429.
	var limited bool
	for range 20 {
		_, err := client.LoginTokens(t.Context(), "nobody@clinicore.test", "wrong")

		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
		assertAPIError(t, err, authsdk.ErrorCodeInvalidCredentials, "Pre-limit failures are credential errors")
	}

	require.True(t, limited, "Login endpoint should rate limit repeated attempts")
}

// TestHealthEndpointsNotStrictlyLimited verifies monitoring endpoints keep
// answering under a burst that would trip the strict profile.
func TestHealthEndpointsNotStrictlyLimited(t *testing.T) {
	baseURL, cleanup := setupAuthContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)

	for range 20 {
		health, err := client.Livez(t.Context())
		assertHealthy(t, health, err)
	}
}
