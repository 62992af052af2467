package store

import (
	"context"
	"errors"

	"github.com/wolfeidau/assettrack/internal/models"
)

// Sentinel errors for user store operations
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserStore defines the interface for user storage operations. Users are
// created by the provision command; there is no self-service signup.
type UserStore interface {
	// Create creates a new user in the store.
	// Returns ErrUserAlreadyExists if the email is already registered.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail retrieves a user by exact email match.
	// Returns ErrUserNotFound if no user has the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
