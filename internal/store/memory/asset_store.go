package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/assettrack/internal/models"
	"github.com/wolfeidau/assettrack/internal/store"
)

// AssetStore implements store.AssetStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
//
// It enforces the same semantics as the PostgreSQL store: every lookup is
// scoped by org ID, and serial numbers are unique per organization.
type AssetStore struct {
	mu sync.Mutex

	assets     map[uuid.UUID]*models.Asset
	categories map[uuid.UUID]*models.Category
}

// NewAssetStore creates a new in-memory asset store.
func NewAssetStore() *AssetStore {
	return &AssetStore{
		assets:     make(map[uuid.UUID]*models.Asset),
		categories: make(map[uuid.UUID]*models.Category),
	}
}

// ListByOrg returns all assets owned by the organization in creation order.
func (s *AssetStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var assets []*models.Asset
	for _, asset := range s.assets {
		if asset.OrgID == orgID {
			assets = append(assets, s.cloneWithCategory(asset))
		}
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].CreatedAt.Before(assets[j].CreatedAt)
	})

	return assets, nil
}

// GetBySerialNumber retrieves the organization's asset with the given serial number.
func (s *AssetStore) GetBySerialNumber(ctx context.Context, orgID uuid.UUID, serialNumber string) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset := s.findBySerial(orgID, serialNumber)
	if asset == nil {
		return nil, store.ErrAssetNotFound
	}

	return s.cloneWithCategory(asset), nil
}

// Create inserts a new asset after verifying the category belongs to the
// same organization.
func (s *AssetStore) Create(ctx context.Context, asset *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, exists := s.categories[asset.CategoryID]
	if !exists || category.OrgID != asset.OrgID {
		return store.ErrCategoryNotFound
	}

	if s.findBySerial(asset.OrgID, asset.SerialNumber) != nil {
		return store.ErrDuplicateSerialNumber
	}

	// Clone to avoid external modifications
	clone := *asset
	clone.Category = nil
	s.assets[asset.AssetID] = &clone

	return nil
}

// Update applies the non-nil fields of params to the asset matched by both
// assetID and orgID.
func (s *AssetStore) Update(ctx context.Context, orgID, assetID uuid.UUID, params store.UpdateAssetParams) (*models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, exists := s.assets[assetID]
	if !exists || asset.OrgID != orgID {
		return nil, store.ErrAssetNotFound
	}

	if params.SerialNumber != nil {
		if other := s.findBySerial(orgID, *params.SerialNumber); other != nil && other.AssetID != assetID {
			return nil, store.ErrDuplicateSerialNumber
		}
	}

	if params.Name != nil {
		asset.Name = *params.Name
	}
	if params.SerialNumber != nil {
		asset.SerialNumber = *params.SerialNumber
	}
	if params.Status != nil {
		asset.Status = *params.Status
	}
	asset.UpdatedAt = time.Now()

	return s.cloneWithCategory(asset), nil
}

// Delete removes the asset matched by both assetID and orgID.
func (s *AssetStore) Delete(ctx context.Context, orgID, assetID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, exists := s.assets[assetID]
	if !exists || asset.OrgID != orgID {
		return store.ErrAssetNotFound
	}

	delete(s.assets, assetID)
	return nil
}

// ResolveDefaultCategory returns a category for the organization, creating
// one named models.DefaultCategoryName if the organization has none.
func (s *AssetStore) ResolveDefaultCategory(ctx context.Context, orgID uuid.UUID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *models.Category
	for _, category := range s.categories {
		if category.OrgID != orgID {
			continue
		}
		if found == nil || category.CreatedAt.Before(found.CreatedAt) {
			found = category
		}
	}
	if found != nil {
		clone := *found
		return &clone, nil
	}

	category := &models.Category{
		CategoryID: uuid.Must(uuid.NewV7()),
		OrgID:      orgID,
		Name:       models.DefaultCategoryName,
		CreatedAt:  time.Now(),
	}
	s.categories[category.CategoryID] = category

	clone := *category
	return &clone, nil
}

// findBySerial returns the organization's asset with the serial number, or
// nil. Callers must hold the lock.
func (s *AssetStore) findBySerial(orgID uuid.UUID, serialNumber string) *models.Asset {
	for _, asset := range s.assets {
		if asset.OrgID == orgID && asset.SerialNumber == serialNumber {
			return asset
		}
	}
	return nil
}

// cloneWithCategory copies an asset and attaches a copy of its category.
// Callers must hold the lock.
func (s *AssetStore) cloneWithCategory(asset *models.Asset) *models.Asset {
	clone := *asset
	if category, exists := s.categories[asset.CategoryID]; exists {
		categoryClone := *category
		clone.Category = &categoryClone
	}
	return &clone
}
