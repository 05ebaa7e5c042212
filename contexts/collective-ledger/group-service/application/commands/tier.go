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

type CreateTierCommand struct {
	GroupID     int64
	Name        string
	Description string
	Amount      int64
	Currency    string
	Interval    string
	MaxQuantity int
	Goal        int64
}

type CreateTierUseCase struct {
	Groups ports.GroupRepository
	Tiers  ports.TierRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc CreateTierUseCase) Execute(ctx context.Context, cmd CreateTierCommand) (entities.Tier, error) {
	logger := application.ResolveLogger(uc.Logger)

	group, err := uc.Groups.GetGroup(ctx, cmd.GroupID)
	if err != nil {
		return entities.Tier{}, err
	}

	now := uc.Clock.Now().UTC()
	tier := entities.Tier{
		GroupID:     group.ID,
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		Amount:      cmd.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(cmd.Currency)),
		Interval:    strings.ToLower(strings.TrimSpace(cmd.Interval)),
		MaxQuantity: cmd.MaxQuantity,
		Goal:        cmd.Goal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if tier.Currency == "" {
		tier.Currency = group.Currency
	}
	if fields := tier.InvalidFields(); len(fields) > 0 {
		return entities.Tier{}, &domainerrors.ValidationError{Fields: fields}
	}

	created, err := uc.Tiers.CreateTier(ctx, tier)
	if err != nil {
		return entities.Tier{}, err
	}

	logger.Info("tier created",
		"event", "group_tier_created",
		"module", "collective-ledger/group-service",
		"layer", "application",
		"group_id", group.ID,
		"tier_id", created.ID,
	)
	return created, nil
}

type UpdateTierCommand struct {
	GroupID     int64
	TierID      int64
	Name        string
	Description string
	Amount      *int64
	Interval    *string
	MaxQuantity *int
	Goal        *int64
}

type UpdateTierUseCase struct {
	Tiers  ports.TierRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc UpdateTierUseCase) Execute(ctx context.Context, cmd UpdateTierCommand) (entities.Tier, error) {
	logger := application.ResolveLogger(uc.Logger)

	tier, err := uc.Tiers.GetTier(ctx, cmd.TierID)
	if err != nil {
		return entities.Tier{}, err
	}
	if tier.GroupID != cmd.GroupID {
		return entities.Tier{}, domainerrors.ErrTierNotFound
	}

	if name := strings.TrimSpace(cmd.Name); name != "" {
		tier.Name = name
	}
	if description := strings.TrimSpace(cmd.Description); description != "" {
		tier.Description = description
	}
	if cmd.Amount != nil {
		tier.Amount = *cmd.Amount
	}
	if cmd.Interval != nil {
		tier.Interval = strings.ToLower(strings.TrimSpace(*cmd.Interval))
	}
	if cmd.MaxQuantity != nil {
		tier.MaxQuantity = *cmd.MaxQuantity
	}
	if cmd.Goal != nil {
		tier.Goal = *cmd.Goal
	}
	if fields := tier.InvalidFields(); len(fields) > 0 {
		return entities.Tier{}, &domainerrors.ValidationError{Fields: fields}
	}

	tier.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Tiers.UpdateTier(ctx, tier); err != nil {
		return entities.Tier{}, err
	}

	logger.Info("tier updated",
		"event", "group_tier_updated",
		"module", "collective-ledger/group-service",
		"layer", "application",
		"group_id", tier.GroupID,
		"tier_id", tier.ID,
	)
	return tier, nil
}
