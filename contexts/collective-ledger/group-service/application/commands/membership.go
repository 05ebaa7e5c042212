package commands

import (
	"context"
	"log/slog"

	application "commonfund/contexts/collective-ledger/group-service/application"
	"commonfund/contexts/collective-ledger/group-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/group-service/domain/errors"
	"commonfund/contexts/collective-ledger/group-service/ports"
)

// AddMemberCommand joins a user to a group with a role set. An empty role
// set defaults to backer.
type AddMemberCommand struct {
	GroupID int64
	UserID  int64
	Roles   []entities.Role
}

type AddMemberUseCase struct {
	Groups      ports.GroupRepository
	Memberships ports.MembershipRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc AddMemberUseCase) Execute(ctx context.Context, cmd AddMemberCommand) (entities.Membership, error) {
	logger := application.ResolveLogger(uc.Logger)

	if _, err := uc.Groups.GetGroup(ctx, cmd.GroupID); err != nil {
		return entities.Membership{}, err
	}
	roles := cmd.Roles
	if len(roles) == 0 {
		roles = []entities.Role{entities.RoleBacker}
	}
	for _, role := range roles {
		if !entities.KnownRole(role) {
			return entities.Membership{}, domainerrors.ErrUnknownRole
		}
	}

	now := uc.Clock.Now().UTC()
	membership, err := uc.Memberships.AddMembership(ctx, entities.Membership{
		GroupID:   cmd.GroupID,
		UserID:    cmd.UserID,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return entities.Membership{}, err
	}

	logger.Info("group member added",
		"event", "group_member_added",
		"module", "collective-ledger/group-service",
		"layer", "application",
		"group_id", cmd.GroupID,
		"user_id", cmd.UserID,
	)
	return membership, nil
}

// UpdateMemberCommand replaces a member's role set.
type UpdateMemberCommand struct {
	GroupID int64
	UserID  int64
	Roles   []entities.Role
}

type UpdateMemberUseCase struct {
	Memberships ports.MembershipRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc UpdateMemberUseCase) Execute(ctx context.Context, cmd UpdateMemberCommand) (entities.Membership, error) {
	logger := application.ResolveLogger(uc.Logger)

	if len(cmd.Roles) == 0 {
		return entities.Membership{}, &domainerrors.ValidationError{Fields: []string{"role"}}
	}
	for _, role := range cmd.Roles {
		if !entities.KnownRole(role) {
			return entities.Membership{}, domainerrors.ErrUnknownRole
		}
	}

	membership, err := uc.Memberships.GetMembership(ctx, cmd.GroupID, cmd.UserID)
	if err != nil {
		return entities.Membership{}, err
	}
	membership.Roles = cmd.Roles
	membership.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Memberships.UpdateMembership(ctx, membership); err != nil {
		return entities.Membership{}, err
	}

	logger.Info("group member updated",
		"event", "group_member_updated",
		"module", "collective-ledger/group-service",
		"layer", "application",
		"group_id", cmd.GroupID,
		"user_id", cmd.UserID,
	)
	return membership, nil
}

type RemoveMemberUseCase struct {
	Memberships ports.MembershipRepository
	Logger      *slog.Logger
}

func (uc RemoveMemberUseCase) Execute(ctx context.Context, groupID int64, userID int64) error {
	logger := application.ResolveLogger(uc.Logger)

	if err := uc.Memberships.RemoveMembership(ctx, groupID, userID); err != nil {
		return err
	}
	logger.Info("group member removed",
		"event", "group_member_removed",
		"module", "collective-ledger/group-service",
		"layer", "application",
		"group_id", groupID,
		"user_id", userID,
	)
	return nil
}

// GrantApplicationUseCase authorizes an application to act on a group.
type GrantApplicationUseCase struct {
	Groups      ports.GroupRepository
	Memberships ports.MembershipRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc GrantApplicationUseCase) Execute(ctx context.Context, applicationID int64, groupID int64) (entities.ApplicationGroupGrant, error) {
	logger := application.ResolveLogger(uc.Logger)

	if _, err := uc.Groups.GetGroup(ctx, groupID); err != nil {
		return entities.ApplicationGroupGrant{}, err
	}
	grant, err := uc.Memberships.CreateGrant(ctx, entities.ApplicationGroupGrant{
		ApplicationID: applicationID,
		GroupID:       groupID,
		CreatedAt:     uc.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.ApplicationGroupGrant{}, err
	}

	logger.Info("application granted group access",
		"event", "group_application_granted",
		"module", "collective-ledger/group-service",
		"layer", "application",
		"group_id", groupID,
		"application_id", applicationID,
	)
	return grant, nil
}
