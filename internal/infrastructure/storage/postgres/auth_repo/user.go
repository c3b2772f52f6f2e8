// Package auth_repo provides the PostgreSQL implementation of auth.UserRepository.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/domain/auth"
	"essenceflow/internal/infrastructure/storage/postgres"
)

const userColumns = `id, name, email, password_hash, role, is_active, last_login_at,
	version, created_at, updated_at`

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

var _ auth.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

// Create inserts a new user. A taken email yields DUPLICATE_ENTRY.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		INSERT INTO users (
			id, name, email, password_hash, role, is_active, last_login_at,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		user.ID.Raw(), user.Name, user.Email, user.PasswordHash, string(user.Role),
		user.IsActive, user.LastLoginAt, user.Version, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if _, dup := postgres.UniqueViolation(err); dup {
			return apperror.NewDuplicate("User", "email", user.Email).WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID auth.UserID) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.txm.GetQuerier(ctx).QueryRow(ctx, query, userID.Raw()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("User", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.txm.GetQuerier(ctx).QueryRow(ctx, query, auth.NormalizeEmail(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("User", email)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// Update updates profile and login data with optimistic locking.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	query := `
		UPDATE users SET
			name = $2,
			password_hash = $3,
			role = $4,
			is_active = $5,
			last_login_at = $6,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND version = $7
	`

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, query,
		user.ID.Raw(), user.Name, user.PasswordHash, string(user.Role),
		user.IsActive, user.LastLoginAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("User", user.ID)
	}

	user.Version++
	user.Touch()
	return nil
}

// Exists reports whether the email is taken.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		auth.NormalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		user auth.User
		role string
	)
	err := row.Scan(
		&user.ID.UUID, &user.Name, &user.Email, &user.PasswordHash, &role,
		&user.IsActive, &user.LastLoginAt,
		&user.Version, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = auth.Role(role)
	return &user, nil
}
