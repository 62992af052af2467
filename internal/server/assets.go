package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assettrack/internal/auth"
	"github.com/wolfeidau/assettrack/internal/models"
	"github.com/wolfeidau/assettrack/internal/store"
	"github.com/wolfeidau/assettrack/internal/telemetry"
)

// Asset handlers take the organization ID exclusively from the identity the
// auth middleware injected. Request bodies and paths carry no organization
// identifier, so there is nothing an attacker can supply to widen the scope
// of a query.

type createAssetRequest struct {
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`
	Status       string `json:"status"`
}

type updateAssetRequest struct {
	Name         *string `json:"name"`
	SerialNumber *string `json:"serialNumber"`
	Status       *string `json:"status"`
}

// handleListAssets returns all assets owned by the caller's organization.
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	assets, err := s.assets.ListByOrg(r.Context(), identity.OrgID)
	if err != nil {
		writeError(w, err)
		return
	}

	if assets == nil {
		assets = []*models.Asset{}
	}

	writeJSON(w, http.StatusOK, assets)
}

// handleCreateAsset validates the input, resolves the organization's
// default category, and inserts the asset.
func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	ctx := r.Context()

	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, invalidInput("invalid request body"))
		return
	}

	name := strings.TrimSpace(req.Name)
	serialNumber := strings.TrimSpace(req.SerialNumber)
	if name == "" {
		writeError(w, invalidInput("name is required"))
		return
	}
	if serialNumber == "" {
		writeError(w, invalidInput("serialNumber is required"))
		return
	}

	status := models.AssetStatusActive
	if req.Status != "" {
		status = models.AssetStatus(req.Status)
		if !status.Valid() {
			writeError(w, invalidInput("status must be one of active, maintenance, retired"))
			return
		}
	}

	// Fast-path duplicate check for a clean error message. The storage
	// uniqueness constraint remains the final arbiter under concurrency.
	_, err := s.assets.GetBySerialNumber(ctx, identity.OrgID, serialNumber)
	if err == nil {
		telemetry.GetMetrics().AssetConflictsTotal.Add(ctx, 1)
		writeError(w, store.ErrDuplicateSerialNumber)
		return
	}
	if !errors.Is(err, store.ErrAssetNotFound) {
		writeError(w, err)
		return
	}

	category, err := s.assets.ResolveDefaultCategory(ctx, identity.OrgID)
	if err != nil {
		writeError(w, err)
		return
	}

	now := time.Now()
	asset := &models.Asset{
		AssetID:      uuid.Must(uuid.NewV7()),
		OrgID:        identity.OrgID,
		CategoryID:   category.CategoryID,
		Name:         name,
		SerialNumber: serialNumber,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.assets.Create(ctx, asset); err != nil {
		if errors.Is(err, store.ErrDuplicateSerialNumber) {
			telemetry.GetMetrics().AssetConflictsTotal.Add(ctx, 1)
		}
		writeError(w, err)
		return
	}

	asset.Category = category

	telemetry.GetMetrics().AssetsCreatedTotal.Add(ctx, 1)

	log.Info().
		Str("asset_id", asset.AssetID.String()).
		Str("org_id", identity.OrgID.String()).
		Msg("Asset created")

	writeJSON(w, http.StatusCreated, asset)
}

// handleUpdateAsset applies a partial update to the asset matched by both
// the path ID and the caller's organization.
func (s *Server) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	ctx := r.Context()

	assetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, invalidInput("invalid asset id"))
		return
	}

	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, invalidInput("invalid request body"))
		return
	}

	var params store.UpdateAssetParams

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, invalidInput("name must not be empty"))
			return
		}
		params.Name = &name
	}

	if req.SerialNumber != nil {
		serialNumber := strings.TrimSpace(*req.SerialNumber)
		if serialNumber == "" {
			writeError(w, invalidInput("serialNumber must not be empty"))
			return
		}
		params.SerialNumber = &serialNumber
	}

	if req.Status != nil {
		status := models.AssetStatus(*req.Status)
		if !status.Valid() {
			writeError(w, invalidInput("status must be one of active, maintenance, retired"))
			return
		}
		params.Status = &status
	}

	if params.Empty() {
		writeError(w, invalidInput("no fields to update"))
		return
	}

	// A serial number already used by a different asset in the same org is
	// a conflict; the asset's own row keeping its serial number is not.
	if params.SerialNumber != nil {
		existing, err := s.assets.GetBySerialNumber(ctx, identity.OrgID, *params.SerialNumber)
		if err == nil && existing.AssetID != assetID {
			telemetry.GetMetrics().AssetConflictsTotal.Add(ctx, 1)
			writeError(w, store.ErrDuplicateSerialNumber)
			return
		}
		if err != nil && !errors.Is(err, store.ErrAssetNotFound) {
			writeError(w, err)
			return
		}
	}

	asset, err := s.assets.Update(ctx, identity.OrgID, assetID, params)
	if err != nil {
		writeError(w, err)
		return
	}

	telemetry.GetMetrics().AssetsUpdatedTotal.Add(ctx, 1)

	writeJSON(w, http.StatusOK, asset)
}

// handleDeleteAsset hard-deletes the asset matched by both the path ID and
// the caller's organization. An asset in another tenant responds 404, the
// same as one that does not exist.
func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	ctx := r.Context()

	assetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, invalidInput("invalid asset id"))
		return
	}

	if err := s.assets.Delete(ctx, identity.OrgID, assetID); err != nil {
		writeError(w, err)
		return
	}

	telemetry.GetMetrics().AssetsDeletedTotal.Add(ctx, 1)

	log.Info().
		Str("asset_id", assetID.String()).
		Str("org_id", identity.OrgID.String()).
		Msg("Asset deleted")

	writeJSON(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}
