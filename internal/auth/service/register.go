package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/clinicore/clinicore/internal/auth/domain"
	"github.com/clinicore/clinicore/internal/auth/store"
	"github.com/clinicore/clinicore/pkg/cryptox"
	"github.com/clinicore/clinicore/pkg/idx"
	"github.com/clinicore/clinicore/pkg/slogx"
)

var ErrInvalidRegistration = errors.New("invalid_registration")

// RegisterService creates new identities. Every self-registered identity gets
// the lowest-privilege role no matter what the caller supplied; there is no
// role parameter on purpose.
type RegisterService struct {
	Store store.Store
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
	Profile  domain.Profile
}

// Register creates a new identity with role forced to patient. Both
// uniqueness checks and the insert run inside one store transaction so two
// concurrent registrations cannot both claim the same email or username.
func (s *RegisterService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	log := slogx.FromContext(ctx)

	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	if p.Username == "" || p.Email == "" || p.Password == "" {
		return domain.User{}, ErrInvalidRegistration
	}

	// Hash before the transaction; argon2 is CPU-bound and must not hold
	// a write transaction open.
	passwordHash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: passwordHash,
		Role:         domain.DefaultRole,
		Active:       true,
		Profile:      p.Profile,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, p.Email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByUsername(ctx, p.Username); err == nil {
			return ErrDuplicateUsername
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		// The insert can still collide under concurrency; the driver's
		// unique-violation mapping covers that window.
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			return domain.User{}, ErrDuplicateEmail
		case errors.Is(err, store.ErrDuplicateUsername):
			return domain.User{}, ErrDuplicateUsername
		}
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", user.Role.String()),
	)

	// Re-read so the caller sees the store-assigned timestamps.
	return s.Store.Users().GetUserByID(ctx, user.ID)
}
