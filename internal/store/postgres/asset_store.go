package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assettrack/internal/models"
	"github.com/wolfeidau/assettrack/internal/store"
)

// AssetStore implements store.AssetStore using PostgreSQL.
//
// Every query filters by org_id. The composite unique constraint on
// (org_id, serial_number) is the final arbiter for concurrent creates; the
// handler-level pre-check only exists for a better error message.
type AssetStore struct {
	pool *pgxpool.Pool
}

// NewAssetStore creates a new PostgreSQL-backed asset store.
// It shares the connection pool with other stores.
func NewAssetStore(pool *pgxpool.Pool) *AssetStore {
	return &AssetStore{
		pool: pool,
	}
}

const assetColumns = `
	a.asset_id, a.org_id, a.category_id, a.name, a.serial_number, a.status,
	a.created_at, a.updated_at,
	c.category_id, c.org_id, c.name, c.created_at
`

func scanAsset(row pgx.Row) (*models.Asset, error) {
	var a models.Asset
	var c models.Category
	err := row.Scan(
		&a.AssetID,
		&a.OrgID,
		&a.CategoryID,
		&a.Name,
		&a.SerialNumber,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
		&c.CategoryID,
		&c.OrgID,
		&c.Name,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Category = &c
	return &a, nil
}

// ListByOrg returns all assets owned by the organization, each with its
// category populated, in creation order.
func (s *AssetStore) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets a
		JOIN categories c ON c.category_id = a.category_id
		WHERE a.org_id = $1
		ORDER BY a.created_at
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// GetBySerialNumber retrieves the organization's asset with the given serial number.
func (s *AssetStore) GetBySerialNumber(ctx context.Context, orgID uuid.UUID, serialNumber string) (*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets a
		JOIN categories c ON c.category_id = a.category_id
		WHERE a.org_id = $1 AND a.serial_number = $2
	`

	asset, err := scanAsset(s.pool.QueryRow(ctx, query, orgID, serialNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset by serial number: %w", err)
	}

	return asset, nil
}

// Create inserts a new asset after verifying the category belongs to the
// same organization.
func (s *AssetStore) Create(ctx context.Context, asset *models.Asset) error {
	// The category always comes from ResolveDefaultCategory, but the
	// cross-table invariant (asset org == category org) is checked
	// explicitly rather than trusted.
	var categoryOrgID uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT org_id FROM categories WHERE category_id = $1`,
		asset.CategoryID,
	).Scan(&categoryOrgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to check category: %w", err)
	}
	if categoryOrgID != asset.OrgID {
		return store.ErrCategoryNotFound
	}

	query := `
		INSERT INTO assets (
			asset_id, org_id, category_id, name, serial_number, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err = s.pool.Exec(ctx, query,
		asset.AssetID,
		asset.OrgID,
		asset.CategoryID,
		asset.Name,
		asset.SerialNumber,
		asset.Status,
		asset.CreatedAt,
		asset.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateSerialNumber
		}
		if isForeignKeyViolation(err) {
			return store.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create asset: %w", err)
	}

	log.Debug().
		Str("asset_id", asset.AssetID.String()).
		Str("org_id", asset.OrgID.String()).
		Str("serial_number", asset.SerialNumber).
		Msg("Created asset")

	return nil
}

// Update applies the non-nil fields of params to the asset matched by both
// assetID and orgID, then re-reads and returns the updated asset.
func (s *AssetStore) Update(ctx context.Context, orgID, assetID uuid.UUID, params store.UpdateAssetParams) (*models.Asset, error) {
	set := []string{"updated_at = $3"}
	args := []any{assetID, orgID, time.Now()}

	if params.Name != nil {
		args = append(args, *params.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if params.SerialNumber != nil {
		args = append(args, *params.SerialNumber)
		set = append(set, fmt.Sprintf("serial_number = $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `
		UPDATE assets
		SET ` + strings.Join(set, ", ") + `
		WHERE asset_id = $1 AND org_id = $2
	`

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateSerialNumber
		}
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return nil, store.ErrAssetNotFound
	}

	log.Debug().
		Str("asset_id", assetID.String()).
		Str("org_id", orgID.String()).
		Msg("Updated asset")

	return s.getByID(ctx, orgID, assetID)
}

// Delete removes the asset matched by both assetID and orgID.
func (s *AssetStore) Delete(ctx context.Context, orgID, assetID uuid.UUID) error {
	query := `DELETE FROM assets WHERE asset_id = $1 AND org_id = $2`

	result, err := s.pool.Exec(ctx, query, assetID, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrAssetNotFound
	}

	log.Debug().
		Str("asset_id", assetID.String()).
		Str("org_id", orgID.String()).
		Msg("Deleted asset")

	return nil
}

// ResolveDefaultCategory returns a category for the organization, creating
// one named models.DefaultCategoryName if the organization has none.
func (s *AssetStore) ResolveDefaultCategory(ctx context.Context, orgID uuid.UUID) (*models.Category, error) {
	query := `
		SELECT category_id, org_id, name, created_at
		FROM categories
		WHERE org_id = $1
		ORDER BY created_at
		LIMIT 1
	`

	var category models.Category
	err := s.pool.QueryRow(ctx, query, orgID).Scan(
		&category.CategoryID,
		&category.OrgID,
		&category.Name,
		&category.CreatedAt,
	)
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	category = models.Category{
		CategoryID: uuid.Must(uuid.NewV7()),
		OrgID:      orgID,
		Name:       models.DefaultCategoryName,
		CreatedAt:  time.Now(),
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO categories (category_id, org_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		category.CategoryID,
		category.OrgID,
		category.Name,
		category.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create default category: %w", err)
	}

	log.Debug().
		Str("category_id", category.CategoryID.String()).
		Str("org_id", orgID.String()).
		Msg("Created default category")

	return &category, nil
}

// getByID retrieves an asset with its category, scoped to the organization.
func (s *AssetStore) getByID(ctx context.Context, orgID, assetID uuid.UUID) (*models.Asset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM assets a
		JOIN categories c ON c.category_id = a.category_id
		WHERE a.asset_id = $1 AND a.org_id = $2
	`

	asset, err := scanAsset(s.pool.QueryRow(ctx, query, assetID, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return asset, nil
}
