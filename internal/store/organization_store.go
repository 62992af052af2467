package store

import (
	"context"
	"errors"

	"github.com/wolfeidau/assettrack/internal/models"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationStore defines the interface for organization storage operations.
// Organizations represent tenants in the system; they are created only by the
// provision command, never by API clients.
type OrganizationStore interface {
	// Create creates a new organization in the store.
	// Returns ErrOrganizationAlreadyExists if the slug is already taken.
	Create(ctx context.Context, org *models.Organization) error

	// GetBySlug retrieves an organization by its unique slug.
	// Returns ErrOrganizationNotFound if no organization has the slug.
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
}
