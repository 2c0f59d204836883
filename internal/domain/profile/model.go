package profile

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Role is the application-level role attached to a profile. Keeping this a
// dedicated type (rather than comparing raw strings at call sites) removes a
// class of typo-induced authorization bugs.
type Role string

// Role constants
const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Domain errors
var (
	ErrEmptyName   = errors.New("full name cannot be empty")
	ErrInvalidRole = errors.New("role must be 'member' or 'admin'")
)

// ParseRole converts a stored role string into a Role.
// PRE: raw is the role column value as fetched from the backend
// POST: Returns the matching Role, or an error for anything unrecognized
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleMember:
		return RoleMember, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", ErrInvalidRole
}

// Profile holds state for the Profile concept: the application-level identity
// record, distinct from the raw authentication identity it is keyed by.
type Profile struct {
	ID               string // authentication identity id
	FullName         string
	Phone            string
	Role             Role
	BillingCustomerID string // external billing processor reference, opaque here
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if p.ID == "" {
		return errors.New("profile id cannot be empty")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return ErrEmptyName
	}
	if len(p.FullName) > MaxNameLength {
		return errors.New("full name cannot exceed 100 characters")
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return err
	}
	return nil
}

// IsAdmin returns true if the profile has the admin role.
// INVARIANT: Profile fields are not mutated
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
