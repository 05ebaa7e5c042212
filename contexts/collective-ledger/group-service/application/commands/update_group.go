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

type UpdateGroupCommand struct {
	GroupID     int64
	Name        string
	Description string
	Currency    string
}

type UpdateGroupUseCase struct {
	Groups ports.GroupRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc UpdateGroupUseCase) Execute(ctx context.Context, cmd UpdateGroupCommand) (entities.Group, error) {
	logger := application.ResolveLogger(uc.Logger)

	group, err := uc.Groups.GetGroup(ctx, cmd.GroupID)
	if err != nil {
		return entities.Group{}, err
	}

	if name := strings.TrimSpace(cmd.Name); name != "" {
		group.Name = name
	}
	if description := strings.TrimSpace(cmd.Description); description != "" {
		group.Description = description
	}
	if currency := strings.ToUpper(strings.TrimSpace(cmd.Currency)); currency != "" {
		group.Currency = currency
	}
	if fields := group.InvalidFields(); len(fields) > 0 {
		return entities.Group{}, &domainerrors.ValidationError{Fields: fields}
	}

	group.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Groups.UpdateGroup(ctx, group); err != nil {
		return entities.Group{}, err
	}

	logger.Info("group updated",
		"event", "group_updated",
		"module", "collective-ledger/group-service",
		"layer", "application",
		"group_id", group.ID,
	)
	return group, nil
}
