package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/assettrack/internal/models"
	"github.com/wolfeidau/assettrack/internal/store"
)

func newAsset(t *testing.T, s *AssetStore, orgID uuid.UUID, name, serial string) *models.Asset {
	t.Helper()
	ctx := context.Background()

	category, err := s.ResolveDefaultCategory(ctx, orgID)
	require.NoError(t, err)

	asset := &models.Asset{
		AssetID:      uuid.Must(uuid.NewV7()),
		OrgID:        orgID,
		CategoryID:   category.CategoryID,
		Name:         name,
		SerialNumber: serial,
		Status:       models.AssetStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, s.Create(ctx, asset))
	return asset
}

func TestAssetStoreCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("create and list", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())

		newAsset(t, s, orgID, "Laptop", "SN-1")
		newAsset(t, s, orgID, "Monitor", "SN-2")

		assets, err := s.ListByOrg(ctx, orgID)
		require.NoError(t, err)
		require.Len(t, assets, 2)
		require.Equal(t, "Laptop", assets[0].Name)
		require.Equal(t, "Monitor", assets[1].Name)
		require.NotNil(t, assets[0].Category)
		require.Equal(t, models.DefaultCategoryName, assets[0].Category.Name)
	})

	t.Run("duplicate serial within org rejected", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())

		newAsset(t, s, orgID, "Laptop", "SN-1")

		category, err := s.ResolveDefaultCategory(ctx, orgID)
		require.NoError(t, err)

		err = s.Create(ctx, &models.Asset{
			AssetID:      uuid.Must(uuid.NewV7()),
			OrgID:        orgID,
			CategoryID:   category.CategoryID,
			Name:         "Another laptop",
			SerialNumber: "SN-1",
			Status:       models.AssetStatusActive,
		})
		require.ErrorIs(t, err, store.ErrDuplicateSerialNumber)
	})

	t.Run("same serial in different orgs allowed", func(t *testing.T) {
		s := NewAssetStore()
		orgA := uuid.Must(uuid.NewV7())
		orgB := uuid.Must(uuid.NewV7())

		newAsset(t, s, orgA, "Laptop A", "SN-1")
		newAsset(t, s, orgB, "Laptop B", "SN-1")

		a, err := s.GetBySerialNumber(ctx, orgA, "SN-1")
		require.NoError(t, err)
		require.Equal(t, "Laptop A", a.Name)

		b, err := s.GetBySerialNumber(ctx, orgB, "SN-1")
		require.NoError(t, err)
		require.Equal(t, "Laptop B", b.Name)
	})

	t.Run("category from another org rejected", func(t *testing.T) {
		s := NewAssetStore()
		orgA := uuid.Must(uuid.NewV7())
		orgB := uuid.Must(uuid.NewV7())

		category, err := s.ResolveDefaultCategory(ctx, orgA)
		require.NoError(t, err)

		err = s.Create(ctx, &models.Asset{
			AssetID:      uuid.Must(uuid.NewV7()),
			OrgID:        orgB,
			CategoryID:   category.CategoryID,
			Name:         "Laptop",
			SerialNumber: "SN-1",
			Status:       models.AssetStatusActive,
		})
		require.ErrorIs(t, err, store.ErrCategoryNotFound)
	})
}

func TestAssetStoreListByOrg(t *testing.T) {
	ctx := context.Background()

	t.Run("empty org returns no assets", func(t *testing.T) {
		s := NewAssetStore()

		assets, err := s.ListByOrg(ctx, uuid.Must(uuid.NewV7()))
		require.NoError(t, err)
		require.Empty(t, assets)
	})

	t.Run("list is scoped to the org", func(t *testing.T) {
		s := NewAssetStore()
		orgA := uuid.Must(uuid.NewV7())
		orgB := uuid.Must(uuid.NewV7())

		newAsset(t, s, orgA, "Laptop A", "SN-1")
		newAsset(t, s, orgB, "Laptop B", "SN-2")

		assets, err := s.ListByOrg(ctx, orgA)
		require.NoError(t, err)
		require.Len(t, assets, 1)
		require.Equal(t, "Laptop A", assets[0].Name)
	})
}

func TestAssetStoreGetBySerialNumber(t *testing.T) {
	ctx := context.Background()

	t.Run("missing serial returns not found", func(t *testing.T) {
		s := NewAssetStore()

		asset, err := s.GetBySerialNumber(ctx, uuid.Must(uuid.NewV7()), "SN-1")
		require.ErrorIs(t, err, store.ErrAssetNotFound)
		require.Nil(t, asset)
	})

	t.Run("other org's serial is invisible", func(t *testing.T) {
		s := NewAssetStore()
		orgA := uuid.Must(uuid.NewV7())
		orgB := uuid.Must(uuid.NewV7())

		newAsset(t, s, orgA, "Laptop", "SN-1")

		asset, err := s.GetBySerialNumber(ctx, orgB, "SN-1")
		require.ErrorIs(t, err, store.ErrAssetNotFound)
		require.Nil(t, asset)
	})
}

func TestAssetStoreUpdate(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }
	statusPtr := func(s models.AssetStatus) *models.AssetStatus { return &s }

	t.Run("partial update leaves other fields intact", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())
		asset := newAsset(t, s, orgID, "Laptop", "SN-1")

		updated, err := s.Update(ctx, orgID, asset.AssetID, store.UpdateAssetParams{
			Status: statusPtr(models.AssetStatusMaintenance),
		})
		require.NoError(t, err)
		require.Equal(t, models.AssetStatusMaintenance, updated.Status)
		require.Equal(t, "Laptop", updated.Name)
		require.Equal(t, "SN-1", updated.SerialNumber)
	})

	t.Run("rename and reserialize", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())
		asset := newAsset(t, s, orgID, "Laptop", "SN-1")

		updated, err := s.Update(ctx, orgID, asset.AssetID, store.UpdateAssetParams{
			Name:         strPtr("Workstation"),
			SerialNumber: strPtr("SN-9"),
		})
		require.NoError(t, err)
		require.Equal(t, "Workstation", updated.Name)
		require.Equal(t, "SN-9", updated.SerialNumber)
	})

	t.Run("serial update keeping own serial succeeds", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())
		asset := newAsset(t, s, orgID, "Laptop", "SN-1")

		_, err := s.Update(ctx, orgID, asset.AssetID, store.UpdateAssetParams{
			SerialNumber: strPtr("SN-1"),
		})
		require.NoError(t, err)
	})

	t.Run("serial update colliding with sibling rejected", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())
		newAsset(t, s, orgID, "Laptop", "SN-1")
		asset := newAsset(t, s, orgID, "Monitor", "SN-2")

		_, err := s.Update(ctx, orgID, asset.AssetID, store.UpdateAssetParams{
			SerialNumber: strPtr("SN-1"),
		})
		require.ErrorIs(t, err, store.ErrDuplicateSerialNumber)
	})

	t.Run("update from another org returns not found", func(t *testing.T) {
		s := NewAssetStore()
		orgA := uuid.Must(uuid.NewV7())
		orgB := uuid.Must(uuid.NewV7())
		asset := newAsset(t, s, orgA, "Laptop", "SN-1")

		updated, err := s.Update(ctx, orgB, asset.AssetID, store.UpdateAssetParams{
			Name: strPtr("Stolen"),
		})
		require.ErrorIs(t, err, store.ErrAssetNotFound)
		require.Nil(t, updated)

		unchanged, err := s.GetBySerialNumber(ctx, orgA, "SN-1")
		require.NoError(t, err)
		require.Equal(t, "Laptop", unchanged.Name)
	})

	t.Run("unknown asset returns not found", func(t *testing.T) {
		s := NewAssetStore()

		_, err := s.Update(ctx, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), store.UpdateAssetParams{
			Name: strPtr("Ghost"),
		})
		require.ErrorIs(t, err, store.ErrAssetNotFound)
	})
}

func TestAssetStoreDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete removes the asset", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())
		asset := newAsset(t, s, orgID, "Laptop", "SN-1")

		require.NoError(t, s.Delete(ctx, orgID, asset.AssetID))

		assets, err := s.ListByOrg(ctx, orgID)
		require.NoError(t, err)
		require.Empty(t, assets)
	})

	t.Run("delete from another org leaves the row intact", func(t *testing.T) {
		s := NewAssetStore()
		orgA := uuid.Must(uuid.NewV7())
		orgB := uuid.Must(uuid.NewV7())
		asset := newAsset(t, s, orgA, "Laptop", "SN-1")

		err := s.Delete(ctx, orgB, asset.AssetID)
		require.ErrorIs(t, err, store.ErrAssetNotFound)

		assets, err := s.ListByOrg(ctx, orgA)
		require.NoError(t, err)
		require.Len(t, assets, 1)
	})

	t.Run("delete unknown asset returns not found", func(t *testing.T) {
		s := NewAssetStore()

		err := s.Delete(ctx, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()))
		require.ErrorIs(t, err, store.ErrAssetNotFound)
	})
}

func TestAssetStoreResolveDefaultCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("creates category on first use", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())

		category, err := s.ResolveDefaultCategory(ctx, orgID)
		require.NoError(t, err)
		require.Equal(t, models.DefaultCategoryName, category.Name)
		require.Equal(t, orgID, category.OrgID)
	})

	t.Run("reuses existing category", func(t *testing.T) {
		s := NewAssetStore()
		orgID := uuid.Must(uuid.NewV7())

		first, err := s.ResolveDefaultCategory(ctx, orgID)
		require.NoError(t, err)

		second, err := s.ResolveDefaultCategory(ctx, orgID)
		require.NoError(t, err)
		require.Equal(t, first.CategoryID, second.CategoryID)
	})

	t.Run("categories are per org", func(t *testing.T) {
		s := NewAssetStore()

		a, err := s.ResolveDefaultCategory(ctx, uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		b, err := s.ResolveDefaultCategory(ctx, uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		require.NotEqual(t, a.CategoryID, b.CategoryID)
	})
}
