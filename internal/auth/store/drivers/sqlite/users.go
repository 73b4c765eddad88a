package sqlite

import (
	"context"
	"database/sql"

	"github.com/clinicore/clinicore/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, email, password_hash, role, active,
	first_name, last_name, employee_id, phone_number, address,
	date_of_birth, gender, avatar_url,
	created_at, updated_at, last_login_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, email, password_hash, role, active,
			first_name, last_name, employee_id, phone_number, address,
			date_of_birth, gender, avatar_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), u.Active,
		u.Profile.FirstName, u.Profile.LastName, u.Profile.EmployeeID,
		u.Profile.PhoneNumber, u.Profile.Address,
		mapOptionalTime(u.Profile.DateOfBirth), u.Profile.Gender, u.Profile.AvatarURL,
	)
	return mapUnique(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			username = ?, email = ?, active = ?,
			first_name = ?, last_name = ?, employee_id = ?,
			phone_number = ?, address = ?, date_of_birth = ?,
			gender = ?, avatar_url = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		u.Username, u.Email, u.Active,
		u.Profile.FirstName, u.Profile.LastName, u.Profile.EmployeeID,
		u.Profile.PhoneNumber, u.Profile.Address, mapOptionalTime(u.Profile.DateOfBirth),
		u.Profile.Gender, u.Profile.AvatarURL,
		u.ID,
	)
	if err != nil {
		return mapUnique(err)
	}
	return requireRow(res)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = CURRENT_TIMESTAMP WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u           domain.User
		role        string
		dateOfBirth sql.NullTime
		lastLoginAt sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.Active,
		&u.Profile.FirstName, &u.Profile.LastName, &u.Profile.EmployeeID,
		&u.Profile.PhoneNumber, &u.Profile.Address,
		&dateOfBirth, &u.Profile.Gender, &u.Profile.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt, &lastLoginAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.Profile.DateOfBirth = mapNullTimePtr(dateOfBirth)
	u.LastLoginAt = mapNullTimePtr(lastLoginAt)
	return u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
