package http

import (
	"net/http"

	"github.com/clinicore/clinicore/internal/auth/service"
	"github.com/clinicore/clinicore/pkg/httpx"
)

// ProfileHandler serves self-service profile access: the target is always
// the authenticated identity itself.
type ProfileHandler struct {
	UserService *service.UserService
}

// HandleGet returns the authenticated identity.
//
//	@Summary		Get own profile
//	@Description	Returns the identity behind the access token.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"The authenticated identity"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := actorFromCtx(ctx)
	if err := service.Authorize(actor, service.ActionReadOwnProfile, ""); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.UserService.GetUser(ctx, actor.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdate applies a partial update to the authenticated identity.
//
//	@Summary		Update own profile
//	@Description	Partially updates the identity behind the access token. Absent fields
//	@Description	are left unchanged; role cannot be changed.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.UpdateUserRequest	true	"Fields to update"
//	@Success		200		{object}	authsdk.UserResponse		"The updated identity"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Email or username already taken"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/profile [patch].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor := actorFromCtx(ctx)
	if err := service.Authorize(actor, service.ActionUpdateOwnProfile, ""); err != nil {
		writeServiceError(w, r, err)
		return
	}

	updateUser(w, r, h.UserService, actor.ID)
}
