package auth

import "context"

// UserRepository defines user storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID UserID) (*User, error)

	// GetByEmail looks up a normalized email address.
	GetByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, user *User) error
	Exists(ctx context.Context, email string) (bool, error)
}
