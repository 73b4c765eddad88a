package http

import (
	"net/http"

	"github.com/clinicore/clinicore/internal/auth/service"
	"github.com/clinicore/clinicore/pkg/authsdk"
	"github.com/clinicore/clinicore/pkg/httpx"
	"github.com/clinicore/clinicore/pkg/slogx"
)

// UsersHandler serves the identity administration surface. Every operation
// runs through Authorize with the actor resolved by the authn middleware.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleList enumerates all identities.
//
//	@Summary		List users
//	@Description	Returns every identity. Admin only.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserListResponse	"All identities"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse		"Not an admin"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := service.Authorize(actorFromCtx(ctx), service.ActionListUsers, ""); err != nil {
		writeServiceError(w, r, err)
		return
	}

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]authsdk.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserListResponse{
		Users: out,
		Total: len(out),
	})
}

// HandleGet fetches a single identity.
//
//	@Summary		Get a user
//	@Description	Returns the identity with the given id. Admin or the identity itself.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"User id"
//	@Success		200	{object}	authsdk.UserResponse	"The identity"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not the admin nor the identity itself"
//	@Failure		404	{object}	authsdk.ErrorResponse	"No such identity"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	if err := service.Authorize(actorFromCtx(ctx), service.ActionReadUser, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.UserService.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdate applies a partial update to an identity.
//
//	@Summary		Update a user
//	@Description	Partially updates the identity with the given id. Absent fields are left
//	@Description	unchanged; role cannot be changed. Admin or the identity itself.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User id"
//	@Param			request	body		authsdk.UpdateUserRequest	true	"Fields to update"
//	@Success		200		{object}	authsdk.UserResponse		"The updated identity"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		403		{object}	authsdk.ErrorResponse		"Not the admin nor the identity itself"
//	@Failure		404		{object}	authsdk.ErrorResponse		"No such identity"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Email or username already taken"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/users/{id} [patch].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	if err := service.Authorize(actorFromCtx(ctx), service.ActionUpdateUser, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	updateUser(w, r, h.UserService, userID)
}

// HandleDelete removes an identity.
//
//	@Summary		Delete a user
//	@Description	Removes the identity with the given id. Admin or the identity itself;
//	@Description	admins may delete their own account.
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User id"
//	@Success		204	"Identity removed"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not the admin nor the identity itself"
//	@Failure		404	{object}	authsdk.ErrorResponse	"No such identity"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := r.PathValue("id")

	actor := actorFromCtx(ctx)
	if err := service.Authorize(actor, service.ActionDeleteUser, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.UserService.DeleteUser(ctx, userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if actor != nil && actor.ID == userID {
		log.Info("identity deleted itself", "user_id", userID)
	}

	w.WriteHeader(http.StatusNoContent)
}

// updateUser is shared between the admin surface and the profile endpoint;
// both decode the same partial-update body.
func updateUser(w http.ResponseWriter, r *http.Request, svc *service.UserService, userID string) {
	var req authsdk.UpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := svc.UpdateUser(r.Context(), userID, service.UpdateUserParams{
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		EmployeeID:  req.EmployeeID,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
