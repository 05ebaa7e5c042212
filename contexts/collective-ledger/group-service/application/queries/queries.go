package queries

import (
	"context"
	"errors"

	"commonfund/contexts/collective-ledger/group-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/group-service/domain/errors"
	"commonfund/contexts/collective-ledger/group-service/ports"
)

type GetGroupUseCase struct {
	Groups ports.GroupRepository
}

func (uc GetGroupUseCase) Execute(ctx context.Context, groupID int64) (entities.Group, error) {
	return uc.Groups.GetGroup(ctx, groupID)
}

type ListUserGroupsUseCase struct {
	Memberships ports.MembershipRepository
}

func (uc ListUserGroupsUseCase) Execute(ctx context.Context, userID int64) ([]entities.Group, error) {
	return uc.Memberships.ListUserGroups(ctx, userID)
}

type ListTiersUseCase struct {
	Groups ports.GroupRepository
	Tiers  ports.TierRepository
}

func (uc ListTiersUseCase) Execute(ctx context.Context, groupID int64) ([]entities.Tier, error) {
	if _, err := uc.Groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return uc.Tiers.ListTiers(ctx, groupID)
}

// AccessSnapshotQuery identifies the caller; either id may be zero.
type AccessSnapshotQuery struct {
	GroupID       int64
	UserID        int64
	ApplicationID int64
}

// AccessSnapshotUseCase loads the group plus the caller's membership roles
// and application grant in one pass. The result feeds the authorization
// gate; a missing group is reported before any authorization verdict.
type AccessSnapshotUseCase struct {
	Groups      ports.GroupRepository
	Memberships ports.MembershipRepository
}

func (uc AccessSnapshotUseCase) Execute(ctx context.Context, query AccessSnapshotQuery) (entities.AccessSnapshot, error) {
	group, err := uc.Groups.GetGroup(ctx, query.GroupID)
	if err != nil {
		return entities.AccessSnapshot{}, err
	}

	snapshot := entities.AccessSnapshot{Group: group}
	if query.UserID != 0 {
		membership, err := uc.Memberships.GetMembership(ctx, query.GroupID, query.UserID)
		switch {
		case err == nil:
			snapshot.UserRoles = membership.Roles
		case errors.Is(err, domainerrors.ErrMembershipNotFound):
			// Not a member; the gate decides what that means.
		default:
			return entities.AccessSnapshot{}, err
		}
	}
	if query.ApplicationID != 0 {
		granted, err := uc.Memberships.HasGrant(ctx, query.ApplicationID, query.GroupID)
		if err != nil {
			return entities.AccessSnapshot{}, err
		}
		snapshot.ApplicationGranted = granted
	}
	return snapshot, nil
}
