package http

import (
	"net/http"

	"github.com/clinicore/clinicore/internal/auth/domain"
	"github.com/clinicore/clinicore/internal/auth/service"
	"github.com/clinicore/clinicore/pkg/authsdk"
	"github.com/clinicore/clinicore/pkg/httpx"
)

type RegisterHandler struct {
	RegisterService *service.RegisterService
}

// ServeHTTP handles account self-registration.
//
//	@Summary		Register a new account
//	@Description	Creates a new identity. The account always starts with the patient role;
//	@Description	there is no way to request a different one through this endpoint.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	authsdk.UserResponse	"The created identity"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed or incomplete request"
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email or username already taken"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.RegisterService.Register(r.Context(), service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Profile: domain.Profile{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
			DateOfBirth: req.DateOfBirth,
			Gender:      req.Gender,
		},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}
