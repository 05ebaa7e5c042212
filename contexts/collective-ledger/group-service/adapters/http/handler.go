package httpadapter

import (
	"context"
	"log/slog"

	"commonfund/contexts/collective-ledger/group-service/application/commands"
	"commonfund/contexts/collective-ledger/group-service/application/queries"
	"commonfund/contexts/collective-ledger/group-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/group-service/domain/errors"
	httptransport "commonfund/contexts/collective-ledger/group-service/transport/http"
)

// Handler maps HTTP DTOs to group-service commands/queries.
type Handler struct {
	CreateGroup    commands.CreateGroupUseCase
	UpdateGroup    commands.UpdateGroupUseCase
	AddMember      commands.AddMemberUseCase
	UpdateMember   commands.UpdateMemberUseCase
	RemoveMember   commands.RemoveMemberUseCase
	GrantApp       commands.GrantApplicationUseCase
	CreateTier     commands.CreateTierUseCase
	UpdateTier     commands.UpdateTierUseCase
	GetGroup       queries.GetGroupUseCase
	ListUserGroups queries.ListUserGroupsUseCase
	ListTiers      queries.ListTiersUseCase
	AccessSnapshot queries.AccessSnapshotUseCase
	Logger         *slog.Logger
}

// AccessSnapshotHandler feeds the authorization gate: it binds the group by
// path id and snapshots the caller's roles and grant in one pass.
func (h Handler) AccessSnapshotHandler(ctx context.Context, groupID int64, userID int64, applicationID int64) (entities.AccessSnapshot, error) {
	return h.AccessSnapshot.Execute(ctx, queries.AccessSnapshotQuery{
		GroupID:       groupID,
		UserID:        userID,
		ApplicationID: applicationID,
	})
}

func (h Handler) CreateGroupHandler(ctx context.Context, creatorUserID int64, request httptransport.CreateGroupRequest) (httptransport.GroupResponse, error) {
	if request.Group == nil {
		return httptransport.GroupResponse{}, &domainerrors.ValidationError{Fields: []string{"group"}}
	}
	group, err := h.CreateGroup.Execute(ctx, commands.CreateGroupCommand{
		CreatorUserID: creatorUserID,
		Name:          request.Group.Name,
		Description:   request.Group.Description,
		Currency:      defaultCurrency(request.Group.Currency),
		CreatorRole:   entities.Role(request.Role),
	})
	if err != nil {
		return httptransport.GroupResponse{}, err
	}
	return groupResponse(group), nil
}

func (h Handler) GetGroupHandler(ctx context.Context, groupID int64) (httptransport.GroupResponse, error) {
	group, err := h.GetGroup.Execute(ctx, groupID)
	if err != nil {
		return httptransport.GroupResponse{}, err
	}
	return groupResponse(group), nil
}

func (h Handler) UpdateGroupHandler(ctx context.Context, groupID int64, request httptransport.UpdateGroupRequest) (httptransport.GroupResponse, error) {
	if request.Group == nil {
		return httptransport.GroupResponse{}, &domainerrors.ValidationError{Fields: []string{"group"}}
	}
	group, err := h.UpdateGroup.Execute(ctx, commands.UpdateGroupCommand{
		GroupID:     groupID,
		Name:        request.Group.Name,
		Description: request.Group.Description,
		Currency:    request.Group.Currency,
	})
	if err != nil {
		return httptransport.GroupResponse{}, err
	}
	return groupResponse(group), nil
}

func (h Handler) AddMemberHandler(ctx context.Context, groupID int64, userID int64, request httptransport.MemberRequest) (httptransport.MembershipResponse, error) {
	membership, err := h.AddMember.Execute(ctx, commands.AddMemberCommand{
		GroupID: groupID,
		UserID:  userID,
		Roles:   requestRoles(request),
	})
	if err != nil {
		return httptransport.MembershipResponse{}, err
	}
	return membershipResponse(membership), nil
}

func (h Handler) UpdateMemberHandler(ctx context.Context, groupID int64, userID int64, request httptransport.MemberRequest) (httptransport.MembershipResponse, error) {
	membership, err := h.UpdateMember.Execute(ctx, commands.UpdateMemberCommand{
		GroupID: groupID,
		UserID:  userID,
		Roles:   requestRoles(request),
	})
	if err != nil {
		return httptransport.MembershipResponse{}, err
	}
	return membershipResponse(membership), nil
}

func (h Handler) RemoveMemberHandler(ctx context.Context, groupID int64, userID int64) error {
	return h.RemoveMember.Execute(ctx, groupID, userID)
}

// GrantApplicationHandler authorizes an API application to act on a group.
// The call is idempotent.
func (h Handler) GrantApplicationHandler(ctx context.Context, applicationID int64, groupID int64) error {
	_, err := h.GrantApp.Execute(ctx, applicationID, groupID)
	return err
}

func (h Handler) ListUserGroupsHandler(ctx context.Context, userID int64) ([]httptransport.GroupResponse, error) {
	groups, err := h.ListUserGroups.Execute(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.GroupResponse, 0, len(groups))
	for _, group := range groups {
		items = append(items, groupResponse(group))
	}
	return items, nil
}

func (h Handler) CreateTierHandler(ctx context.Context, groupID int64, request httptransport.CreateTierRequest) (httptransport.TierResponse, error) {
	if request.Tier == nil {
		return httptransport.TierResponse{}, &domainerrors.ValidationError{Fields: []string{"tier"}}
	}
	tier, err := h.CreateTier.Execute(ctx, commands.CreateTierCommand{
		GroupID:     groupID,
		Name:        request.Tier.Name,
		Description: request.Tier.Description,
		Amount:      request.Tier.Amount,
		Currency:    request.Tier.Currency,
		Interval:    request.Tier.Interval,
		MaxQuantity: request.Tier.MaxQuantity,
		Goal:        request.Tier.Goal,
	})
	if err != nil {
		return httptransport.TierResponse{}, err
	}
	return tierResponse(tier), nil
}

func (h Handler) UpdateTierHandler(ctx context.Context, groupID int64, tierID int64, request httptransport.UpdateTierRequest) (httptransport.TierResponse, error) {
	tier, err := h.UpdateTier.Execute(ctx, commands.UpdateTierCommand{
		GroupID:     groupID,
		TierID:      tierID,
		Name:        request.Name,
		Description: request.Description,
		Amount:      request.Amount,
		Interval:    request.Interval,
		MaxQuantity: request.MaxQuantity,
		Goal:        request.Goal,
	})
	if err != nil {
		return httptransport.TierResponse{}, err
	}
	return tierResponse(tier), nil
}

func (h Handler) ListTiersHandler(ctx context.Context, groupID int64) ([]httptransport.TierResponse, error) {
	tiers, err := h.ListTiers.Execute(ctx, groupID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.TierResponse, 0, len(tiers))
	for _, tier := range tiers {
		items = append(items, tierResponse(tier))
	}
	return items, nil
}

func requestRoles(request httptransport.MemberRequest) []entities.Role {
	raw := request.Roles
	if len(raw) == 0 && request.Role != "" {
		raw = []string{request.Role}
	}
	roles := make([]entities.Role, 0, len(raw))
	for _, role := range raw {
		roles = append(roles, entities.Role(role))
	}
	return roles
}

func defaultCurrency(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}

func groupResponse(group entities.Group) httptransport.GroupResponse {
	return httptransport.GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Currency:    group.Currency,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}

func membershipResponse(membership entities.Membership) httptransport.MembershipResponse {
	roles := make([]string, 0, len(membership.Roles))
	for _, role := range membership.Roles {
		roles = append(roles, string(role))
	}
	return httptransport.MembershipResponse{
		GroupID: membership.GroupID,
		UserID:  membership.UserID,
		Roles:   roles,
	}
}

func tierResponse(tier entities.Tier) httptransport.TierResponse {
	return httptransport.TierResponse{
		ID:          tier.ID,
		GroupID:     tier.GroupID,
		Name:        tier.Name,
		Description: tier.Description,
		Amount:      tier.Amount,
		Currency:    tier.Currency,
		Interval:    tier.Interval,
		MaxQuantity: tier.MaxQuantity,
		Goal:        tier.Goal,
		CreatedAt:   tier.CreatedAt,
		UpdatedAt:   tier.UpdatedAt,
	}
}
