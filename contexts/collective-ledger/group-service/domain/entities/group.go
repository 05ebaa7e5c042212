package entities

import (
	"strings"
	"time"
)

// Role is a membership role inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
	RoleBacker Role = "backer"
)

// KnownRole reports whether the role is one the platform understands.
func KnownRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleWriter, RoleBacker:
		return true
	default:
		return false
	}
}

// Group is a financial container owning transactions, memberships, and tiers.
type Group struct {
	ID          int64
	Name        string
	Description string
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvalidFields reports which group fields violate constraints.
func (g Group) InvalidFields() []string {
	var fields []string
	if strings.TrimSpace(g.Name) == "" {
		fields = append(fields, "name")
	}
	if len(g.Currency) != 3 {
		fields = append(fields, "currency")
	}
	return fields
}

// Membership ties a user to a group with a set of roles. The (GroupID,
// UserID) pair is unique; multiple roles are represented as a set.
type Membership struct {
	ID        int64
	GroupID   int64
	UserID    int64
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRole reports whether the membership carries any of the given roles.
func (m Membership) HasRole(roles ...Role) bool {
	for _, held := range m.Roles {
		for _, wanted := range roles {
			if held == wanted {
				return true
			}
		}
	}
	return false
}

// ApplicationGroupGrant authorizes an application to act on a group,
// independent of any user membership.
type ApplicationGroupGrant struct {
	ID            int64
	ApplicationID int64
	GroupID       int64
	CreatedAt     time.Time
}

// AccessSnapshot is the authorization view of one group for one caller,
// read once at parameter-binding time.
type AccessSnapshot struct {
	Group              Group
	UserRoles          []Role
	ApplicationGranted bool
}
