package group

import (
	"log/slog"

	httpadapter "commonfund/contexts/collective-ledger/group-service/adapters/http"
	"commonfund/contexts/collective-ledger/group-service/adapters/memory"
	"commonfund/contexts/collective-ledger/group-service/application/commands"
	"commonfund/contexts/collective-ledger/group-service/application/queries"
	"commonfund/contexts/collective-ledger/group-service/ports"
)

// Module is the group-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Groups      ports.GroupRepository
	Memberships ports.MembershipRepository
	Tiers       ports.TierRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

// NewModule wires group-service use-cases and the transport handler using
// explicit ports.
func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		CreateGroup: commands.CreateGroupUseCase{
			Groups:      deps.Groups,
			Memberships: deps.Memberships,
			Clock:       deps.Clock,
			Logger:      deps.Logger,
		},
		UpdateGroup: commands.UpdateGroupUseCase{
			Groups: deps.Groups,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		AddMember: commands.AddMemberUseCase{
			Groups:      deps.Groups,
			Memberships: deps.Memberships,
			Clock:       deps.Clock,
			Logger:      deps.Logger,
		},
		UpdateMember: commands.UpdateMemberUseCase{
			Memberships: deps.Memberships,
			Clock:       deps.Clock,
			Logger:      deps.Logger,
		},
		RemoveMember: commands.RemoveMemberUseCase{
			Memberships: deps.Memberships,
			Logger:      deps.Logger,
		},
		GrantApp: commands.GrantApplicationUseCase{
			Groups:      deps.Groups,
			Memberships: deps.Memberships,
			Clock:       deps.Clock,
			Logger:      deps.Logger,
		},
		CreateTier: commands.CreateTierUseCase{
			Groups: deps.Groups,
			Tiers:  deps.Tiers,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		UpdateTier: commands.UpdateTierUseCase{
			Tiers:  deps.Tiers,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		GetGroup: queries.GetGroupUseCase{
			Groups: deps.Groups,
		},
		ListUserGroups: queries.ListUserGroupsUseCase{
			Memberships: deps.Memberships,
		},
		ListTiers: queries.ListTiersUseCase{
			Groups: deps.Groups,
			Tiers:  deps.Tiers,
		},
		AccessSnapshot: queries.AccessSnapshotUseCase{
			Groups:      deps.Groups,
			Memberships: deps.Memberships,
		},
		Logger: deps.Logger,
	}

	return Module{Handler: handler}
}

// NewInMemoryModule builds a development/testing module backed by the
// in-memory store.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Groups:      store,
		Memberships: store,
		Tiers:       store,
		Clock:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
