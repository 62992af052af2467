package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. It is the root of data
// isolation: every user, category and asset belongs to exactly one
// organization. Organizations have no owner and are created only by the
// provision command.
type Organization struct {
	OrgID     uuid.UUID `json:"id"` // UUIDv7
	Name      string    `json:"name"`
	Slug      string    `json:"slug"` // unique, URL-safe
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
