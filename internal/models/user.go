package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values for User.Role. The role is informational only: no access
// check consults it. Tenancy, not role, is the authorization boundary.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents a person who can log in. A user belongs to exactly one
// organization for its lifetime; OrgID is immutable after creation.
type User struct {
	UserID uuid.UUID `json:"id"` // UUIDv7
	OrgID  uuid.UUID `json:"organizationId"`
	Email  string    `json:"email"` // globally unique

	// PasswordDigest is the bcrypt digest of the user's password. The
	// plaintext is never persisted and the digest is never serialized.
	PasswordDigest string `json:"-"`

	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
