package gate

import "errors"

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbidden              = errors.New("forbidden")
	ErrInsufficientAccess     = errors.New("insufficient application access level")
)

// Role is a membership role inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
	RoleBacker Role = "backer"
)

// UserPrincipal is a caller authenticated with a bearer credential.
type UserPrincipal struct {
	ID int64
}

// ApplicationPrincipal is a caller identified by a registered API key.
// AccessScore is the application's trust level, used to gate sensitive
// operations such as user self-registration.
type ApplicationPrincipal struct {
	ID          int64
	AccessScore float64
}

// Principal carries the identities resolved for one request. A request holds
// at most one user and at most one application; both may be present when an
// application acts on behalf of a signed-in user, and both may be absent on
// public routes.
type Principal struct {
	User        *UserPrincipal
	Application *ApplicationPrincipal
}

// Target is the snapshot of the bound resources a request acts on. Binding
// fills only the fields the route needs; zero values mean "not bound".
type Target struct {
	GroupID            int64
	UserRoles          []Role
	ApplicationGranted bool
	PathUserID         int64
	TransactionID      int64
	TransactionGroupID int64
}

// HasRole reports whether the snapshotted role set contains any of the given
// roles.
func (t Target) HasRole(roles ...Role) bool {
	for _, held := range t.UserRoles {
		for _, wanted := range roles {
			if held == wanted {
				return true
			}
		}
	}
	return false
}

// Predicate is one authorization check. It returns nil to continue the chain.
type Predicate func(principal Principal, target Target) error

// Chain composes predicates left to right, stopping at the first failure.
func Chain(predicates ...Predicate) Predicate {
	return func(principal Principal, target Target) error {
		for _, predicate := range predicates {
			if err := predicate(principal, target); err != nil {
				return err
			}
		}
		return nil
	}
}
