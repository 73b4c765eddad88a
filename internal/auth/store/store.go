package store

import (
	"context"
	"errors"

	"github.com/clinicore/clinicore/internal/auth/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// Uniqueness violations are reported per-column so the registration
	// flow can tell the caller which field collided.
	ErrDuplicateEmail    = errors.New("store: email already exists")
	ErrDuplicateUsername = errors.New("store: username already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// Sub-repositories keep concerns tidy and let tests target one table.
type Store interface {
	Users() Users
	RevokedTokens() RevokedTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn
	// errors and committing otherwise. Use it for multi-step operations
	// that must be atomic (e.g. the registration uniqueness checks).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. Exact, case-sensitive match.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername is used for the registration uniqueness check.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrDuplicateEmail or ErrDuplicateUsername on collision.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser writes the mutable fields (username, email, profile,
	// active) and bumps updated_at. The role column is never touched.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdateLastLogin stamps last_login_at after a successful login.
	UpdateLastLogin(ctx context.Context, userID string) error

	// DeleteUser removes the user record.
	DeleteUser(ctx context.Context, userID string) error

	// ListUsers returns all users ordered by creation (admin-only surface).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty returns true if there are no users. Used by admin seeding.
	IsEmpty(ctx context.Context) (bool, error)
}

type RevokedTokens interface {
	// Revoke inserts a revocation record. Idempotent: revoking an
	// already-revoked jti succeeds and leaves a single record.
	Revoke(ctx context.Context, t domain.RevokedToken) error

	// IsRevoked reports whether the jti is present in the revocation set.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteExpired removes records whose token has passed its natural
	// expiry. Housekeeping calls this to bound growth.
	DeleteExpired(ctx context.Context) error
}
