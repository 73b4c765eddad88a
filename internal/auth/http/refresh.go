package http

import (
	"net/http"
	"time"

	"github.com/clinicore/clinicore/internal/auth/service"
	"github.com/clinicore/clinicore/pkg/authsdk"
	"github.com/clinicore/clinicore/pkg/httpx"
)

type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP handles access token refresh.
//
//	@Summary		Refresh the access token
//	@Description	Mints a new access token from a live refresh token. The new token carries
//	@Description	the identity and role exactly as they were at login.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.TokenResponse	"Fresh access token"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Expired, malformed, or revoked refresh token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := decodeBody(r, &req); err != nil || req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	accessToken, err := h.TokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.TokenService.AccessTTL / time.Second),
	})
}
