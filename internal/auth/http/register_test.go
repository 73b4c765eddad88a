package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/pkg/authsdk"
)

func postJSON(t *testing.T, router *Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterHandler(t *testing.T) {
	t.Run("creates a patient account", func(t *testing.T) {
		router := newTestRouter(t)

		rec := postJSON(t, router, "/v1/register",
			`{"username":"alice","email":"alice@example.com","password":"Password1!"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var user authsdk.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "patient", user.Role)
		require.True(t, user.Active)
	})

	t.Run("role in the request body is discarded", func(t *testing.T) {
		router := newTestRouter(t)

		// A client asking for a privileged role still gets a patient account.
		rec := postJSON(t, router, "/v1/register",
			`{"username":"eve","email":"eve@example.com","password":"Password1!","role":"admin"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var user authsdk.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		require.Equal(t, "patient", user.Role)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		router := newTestRouter(t)

		rec := postJSON(t, router, "/v1/register",
			`{"usernmae":"bob","email":"bob@example.com","password":"Password1!"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var errResp authsdk.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
		require.Equal(t, "invalid_request", errResp.Error)
	})
}
