package commands

import (
	"context"
	"log/slog"
	"strings"

	application "commonfund/contexts/collective-ledger/group-service/application"
	"commonfund/contexts/collective-ledger/group-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/group-service/domain/errors"
	"commonfund/contexts/collective-ledger/group-service/ports"
)

// CreateGroupCommand creates a group. CreatorRole, when non-empty, assigns
// the creating user that role immediately; otherwise the creator is not a
// member.
type CreateGroupCommand struct {
	CreatorUserID int64
	Name          string
	Description   string
	Currency      string
	CreatorRole   entities.Role
}

type CreateGroupUseCase struct {
	Groups      ports.GroupRepository
	Memberships ports.MembershipRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc CreateGroupUseCase) Execute(ctx context.Context, cmd CreateGroupCommand) (entities.Group, error) {
	logger := application.ResolveLogger(uc.Logger)

	now := uc.Clock.Now().UTC()
	group := entities.Group{
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		Currency:    strings.ToUpper(strings.TrimSpace(cmd.Currency)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if fields := group.InvalidFields(); len(fields) > 0 {
		return entities.Group{}, &domainerrors.ValidationError{Fields: fields}
	}
	if cmd.CreatorRole != "" && !entities.KnownRole(cmd.CreatorRole) {
		return entities.Group{}, domainerrors.ErrUnknownRole
	}

	created, err := uc.Groups.CreateGroup(ctx, group)
	if err != nil {
		return entities.Group{}, err
	}

	if cmd.CreatorRole != "" {
		_, err = uc.Memberships.AddMembership(ctx, entities.Membership{
			GroupID:   created.ID,
			UserID:    cmd.CreatorUserID,
			Roles:     []entities.Role{cmd.CreatorRole},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return entities.Group{}, err
		}
	}

	logger.Info("group created",
		"event", "group_created",
		"module", "collective-ledger/group-service",
		"layer", "application",
		"group_id", created.ID,
		"creator_user_id", cmd.CreatorUserID,
	)
	return created, nil
}
