package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clinicore/clinicore/internal/auth/domain"
	"github.com/clinicore/clinicore/internal/auth/store"
	"github.com/clinicore/clinicore/pkg/slogx"
)

// UserService serves the identity CRUD surface. Callers are expected to have
// passed Authorize first; this service does not re-check policy.
type UserService struct {
	Store store.Store
}

// UpdateUserParams carries a partial update. Nil fields are left unchanged.
// There is deliberately no role field: role is fixed at registration and no
// operation changes it.
type UpdateUserParams struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	EmployeeID  *string
	PhoneNumber *string
	Address     *string
	DateOfBirth *time.Time
	Gender      *string
	AvatarURL   *string
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ListUsers returns every identity. Admin-only; enforced by Authorize at the
// call site.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// UpdateUser applies a partial update to the user's mutable fields. The read
// and write share a transaction so concurrent updates don't clobber fields
// they didn't name.
func (s *UserService) UpdateUser(ctx context.Context, userID string, p UpdateUserParams) (domain.User, error) {
	var updated domain.User

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		applyString(&user.Username, p.Username)
		applyString(&user.Email, p.Email)
		applyString(&user.Profile.FirstName, p.FirstName)
		applyString(&user.Profile.LastName, p.LastName)
		applyString(&user.Profile.EmployeeID, p.EmployeeID)
		applyString(&user.Profile.PhoneNumber, p.PhoneNumber)
		applyString(&user.Profile.Address, p.Address)
		applyString(&user.Profile.Gender, p.Gender)
		applyString(&user.Profile.AvatarURL, p.AvatarURL)
		if p.DateOfBirth != nil {
			user.Profile.DateOfBirth = p.DateOfBirth
		}

		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			return err
		}

		// Re-read so the caller sees the store-assigned updated_at.
		updated, err = tx.Users().GetUserByID(ctx, user.ID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		case errors.Is(err, store.ErrDuplicateEmail):
			return domain.User{}, ErrDuplicateEmail
		case errors.Is(err, store.ErrDuplicateUsername):
			return domain.User{}, ErrDuplicateUsername
		}
		return domain.User{}, err
	}

	return updated, nil
}

// DeleteUser removes an identity. Admins may delete any identity, including
// their own.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	log.Info("user deleted", slog.String("user_id", userID))
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
