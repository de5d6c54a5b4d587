package auth

import (
	"context"

	"bherp/internal/core/id"
)

// UserRepository defines user storage operations. Users are platform
// level rows; lookups by username are global, not tenant-scoped.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves user by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByUsername retrieves user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update updates user data.
	Update(ctx context.Context, user *User) error

	// ExistsByUsername checks if a username is taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ListByTenant retrieves all users of one tenant.
	ListByTenant(ctx context.Context, tenantID id.ID) ([]User, error)
}
