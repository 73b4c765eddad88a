package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicore/clinicore/internal/auth/domain"
	"github.com/clinicore/clinicore/internal/auth/service"
	"github.com/clinicore/clinicore/pkg/authsdk"
	"github.com/clinicore/clinicore/pkg/httpx"
	"github.com/clinicore/clinicore/pkg/jwtx"
	"github.com/clinicore/clinicore/pkg/slogx"
)

// actorFromCtx rebuilds the service actor from the claims the authn
// middleware stored on the context. Nil when the request was not
// authenticated.
func actorFromCtx(ctx context.Context) *service.Actor {
	claims, ok := ctx.Value(httpx.CtxKeyClaims).(jwtx.Claims)
	if !ok || claims.Subject == "" {
		return nil
	}
	return &service.Actor{
		ID:       claims.Subject,
		Role:     domain.Role(claims.Role),
		Username: claims.Username,
	}
}

// decodeBody decodes a JSON request body, rejecting unknown fields so typos
// in field names fail loudly instead of being silently dropped.
func decodeBody(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}

func toUserResponse(u domain.User) authsdk.UserResponse {
	return authsdk.UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role.String(),
		Active:      u.Active,
		FirstName:   u.Profile.FirstName,
		LastName:    u.Profile.LastName,
		EmployeeID:  u.Profile.EmployeeID,
		PhoneNumber: u.Profile.PhoneNumber,
		Address:     u.Profile.Address,
		DateOfBirth: u.Profile.DateOfBirth,
		Gender:      u.Profile.Gender,
		AvatarURL:   u.Profile.AvatarURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// writeServiceError maps service error kinds onto the API error bodies.
// Anything unrecognized is an internal error and gets logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrUnauthenticated):
		authsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrTokenRevoked):
		authsdk.ErrTokenRevoked.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrDuplicateEmail):
		authsdk.ErrDuplicateEmail.WriteError(w)
	case errors.Is(err, service.ErrDuplicateUsername):
		authsdk.ErrDuplicateUsername.WriteError(w)
	case errors.Is(err, service.ErrInvalidRegistration):
		authsdk.ErrInvalidRequest.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
