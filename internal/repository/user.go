package repository

import (
	"context"

	"filevault/internal/model"
)

// UserRepository defines data access for user accounts using SQL queries only.
// No business logic here — strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user record and returns the stored row.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by its ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by its unique email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByCredentials returns the user matching both email and password digest.
	FindByCredentials(ctx context.Context, email, passwordHash string) (*model.User, error)

	// Count returns the total number of registered users.
	Count(ctx context.Context) (int, error)
}
