package models

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus is the lifecycle state of an asset. Transitions are
// unrestricted: any status may move to any other.
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

// Valid reports whether s is one of the known asset statuses.
func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusActive, AssetStatusMaintenance, AssetStatusRetired:
		return true
	}
	return false
}

// DefaultCategoryName is the name of the category created lazily the first
// time an organization creates an asset with no existing category.
const DefaultCategoryName = "General"

// Category classifies assets within an organization. Categories are created
// implicitly on first asset creation for an org, never directly by clients.
type Category struct {
	CategoryID uuid.UUID `json:"id"` // UUIDv7
	OrgID      uuid.UUID `json:"organizationId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Asset is a tracked piece of equipment owned by an organization. The
// serial number is unique within the owning organization; unrelated tenants
// may reuse the same serial number.
type Asset struct {
	AssetID      uuid.UUID   `json:"id"` // UUIDv7
	OrgID        uuid.UUID   `json:"organizationId"`
	CategoryID   uuid.UUID   `json:"categoryId"`
	Name         string      `json:"name"`
	SerialNumber string      `json:"serialNumber"`
	Status       AssetStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`

	// Category is populated on reads that join the owning category.
	Category *Category `json:"category,omitempty"`
}
