package ports

import (
	"context"
	"time"

	"commonfund/contexts/collective-ledger/group-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// GroupRepository is the persistence boundary for groups.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group entities.Group) (entities.Group, error)
	GetGroup(ctx context.Context, groupID int64) (entities.Group, error)
	UpdateGroup(ctx context.Context, group entities.Group) error
}

// MembershipRepository is the persistence boundary for user memberships and
// application grants.
type MembershipRepository interface {
	AddMembership(ctx context.Context, membership entities.Membership) (entities.Membership, error)
	GetMembership(ctx context.Context, groupID int64, userID int64) (entities.Membership, error)
	UpdateMembership(ctx context.Context, membership entities.Membership) error
	RemoveMembership(ctx context.Context, groupID int64, userID int64) error
	ListUserGroups(ctx context.Context, userID int64) ([]entities.Group, error)
	CreateGrant(ctx context.Context, grant entities.ApplicationGroupGrant) (entities.ApplicationGroupGrant, error)
	HasGrant(ctx context.Context, applicationID int64, groupID int64) (bool, error)
}

// TierRepository is the persistence boundary for contribution tiers.
type TierRepository interface {
	CreateTier(ctx context.Context, tier entities.Tier) (entities.Tier, error)
	UpdateTier(ctx context.Context, tier entities.Tier) error
	GetTier(ctx context.Context, tierID int64) (entities.Tier, error)
	ListTiers(ctx context.Context, groupID int64) ([]entities.Tier, error)
}
