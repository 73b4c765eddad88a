package http

import (
	"net/http"

	"github.com/clinicore/clinicore/internal/auth/service"
	"github.com/clinicore/clinicore/pkg/authsdk"
)

type LogoutHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP handles logout.
//
//	@Summary		Log out
//	@Description	Revokes the refresh token. Revoking an already-revoked or naturally
//	@Description	expired token succeeds; outstanding access tokens stay valid until expiry.
//	@Tags			Sessions
//	@Accept			json
//	@Param			request	body	authsdk.LogoutRequest	true	"Refresh token to revoke"
//	@Success		204		"Token revoked"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Structurally invalid token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LogoutRequest
	if err := decodeBody(r, &req); err != nil || req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.TokenService.Logout(r.Context(), req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
