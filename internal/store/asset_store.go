package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/assettrack/internal/models"
)

// Sentinel errors for asset store operations
var (
	ErrAssetNotFound         = errors.New("asset not found")
	ErrDuplicateSerialNumber = errors.New("serial number already in use")
	ErrCategoryNotFound      = errors.New("category not found")
)

// UpdateAssetParams carries the fields of a partial asset update. Nil fields
// are left untouched.
type UpdateAssetParams struct {
	Name         *string
	SerialNumber *string
	Status       *models.AssetStatus
}

// Empty reports whether no fields are set.
func (p UpdateAssetParams) Empty() bool {
	return p.Name == nil && p.SerialNumber == nil && p.Status == nil
}

// AssetStore defines the interface for asset storage operations.
//
// Every operation takes the caller's organization ID and constrains its
// queries to rows owned by that organization. No operation addresses an
// asset by its own ID alone; an asset in another tenant is indistinguishable
// from one that does not exist.
type AssetStore interface {
	// ListByOrg returns all assets owned by the organization, each with its
	// category populated, in creation order.
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Asset, error)

	// GetBySerialNumber retrieves the organization's asset with the given
	// serial number. Returns ErrAssetNotFound if the organization has none.
	GetBySerialNumber(ctx context.Context, orgID uuid.UUID, serialNumber string) (*models.Asset, error)

	// Create inserts a new asset. The asset's category must belong to the
	// same organization; Create returns ErrCategoryNotFound otherwise.
	// Returns ErrDuplicateSerialNumber if the organization already has an
	// asset with the same serial number. The storage uniqueness constraint is
	// the final arbiter for concurrent creates; callers may pre-check but
	// must not rely on the pre-check alone.
	Create(ctx context.Context, asset *models.Asset) error

	// Update applies the non-nil fields of params to the asset matched by
	// both assetID and orgID, and returns the updated asset with its
	// category populated. Returns ErrAssetNotFound if no row matched, and
	// ErrDuplicateSerialNumber if the new serial number collides within the
	// organization.
	Update(ctx context.Context, orgID, assetID uuid.UUID, params UpdateAssetParams) (*models.Asset, error)

	// Delete removes the asset matched by both assetID and orgID.
	// Returns ErrAssetNotFound if no row matched.
	Delete(ctx context.Context, orgID, assetID uuid.UUID) error

	// ResolveDefaultCategory returns a category for the organization,
	// creating one named models.DefaultCategoryName if the organization has
	// none. Find-first semantics: a concurrent duplicate category is
	// tolerated, not prevented.
	ResolveDefaultCategory(ctx context.Context, orgID uuid.UUID) (*models.Category, error)
}
