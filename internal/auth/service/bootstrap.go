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

var (
	ErrBootstrapAlready     = errors.New("system already has users")
	ErrBootstrapIncomplete  = errors.New("admin username, email, and password are all required")
	ErrBootstrapCreateAdmin = errors.New("failed to create admin user")
)

// BootstrapService seeds the first admin account. Registration always assigns
// the lowest-privilege role, so without seeding there would be no way to mint
// an admin at all.
type BootstrapService struct {
	Store store.Store
}

// AdminSeed holds the configured credentials for the initial admin.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// EnsureAdmin creates the seed admin if and only if the users table is empty.
// Safe to run on every startup.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, seed AdminSeed) (string, error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return "", err
	}
	if !empty {
		return "", ErrBootstrapAlready
	}

	seed.Username = strings.TrimSpace(seed.Username)
	seed.Email = strings.TrimSpace(seed.Email)
	if seed.Username == "" || seed.Email == "" || seed.Password == "" {
		return "", ErrBootstrapIncomplete
	}

	passHash, err := cryptox.HashPassword(seed.Password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", ErrBootstrapCreateAdmin
	}

	adminID := idx.New().String()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check inside the transaction so two racing instances don't
		// both seed.
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		return tx.Users().CreateUser(ctx, domain.User{
			ID:           adminID,
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: passHash,
			Role:         domain.RoleAdmin,
			Active:       true,
		})
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			return "", ErrBootstrapAlready
		}
		l.Error("failed to create admin user",
			slog.String("admin_user_id", adminID),
			slog.Any("error", err),
		)
		return "", ErrBootstrapCreateAdmin
	}

	l.Info("seeded initial admin user",
		slog.String("admin_user_id", adminID),
		slog.String("username", seed.Username),
	)
	return adminID, nil
}
