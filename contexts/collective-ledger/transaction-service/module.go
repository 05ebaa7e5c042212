package transaction

import (
	"log/slog"

	httpadapter "commonfund/contexts/collective-ledger/transaction-service/adapters/http"
	"commonfund/contexts/collective-ledger/transaction-service/adapters/memory"
	"commonfund/contexts/collective-ledger/transaction-service/application/commands"
	"commonfund/contexts/collective-ledger/transaction-service/application/queries"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

// Module is the transaction-service composition root exposed to runtime
// wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Gateway *memory.Gateway
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Transactions ports.TransactionRepository
	Activities   ports.ActivityRepository
	Gateway      ports.PaymentGateway
	Clock        ports.Clock
	// GatewayAttempts bounds retries of a pay-key mint against transient
	// gateway failures.
	GatewayAttempts int
	Logger          *slog.Logger
}

// NewModule wires transaction-service use-cases and the transport handler
// using explicit ports.
func NewModule(deps Dependencies) Module {
	create := commands.CreateTransactionUseCase{
		Transactions: deps.Transactions,
		Activities:   deps.Activities,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	approve := commands.ApproveTransactionUseCase{
		Transactions: deps.Transactions,
		Activities:   deps.Activities,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	payKey := commands.RequestPayKeyUseCase{
		Transactions: deps.Transactions,
		Gateway:      deps.Gateway,
		Attempts:     deps.GatewayAttempts,
		Logger:       deps.Logger,
	}
	confirm := commands.ConfirmPaymentUseCase{
		Transactions: deps.Transactions,
		Activities:   deps.Activities,
		Gateway:      deps.Gateway,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}

	handler := httpadapter.Handler{
		Create:  create,
		Approve: approve,
		PayKey:  payKey,
		Confirm: confirm,
		Attribute: commands.AttributeUserUseCase{
			Transactions: deps.Transactions,
			Activities:   deps.Activities,
			Clock:        deps.Clock,
			Logger:       deps.Logger,
		},
		Delete: commands.DeleteTransactionUseCase{
			Transactions: deps.Transactions,
			Logger:       deps.Logger,
		},
		Donate: commands.CreateDonationUseCase{
			Create:  create,
			Approve: approve,
			PayKey:  payKey,
			Confirm: confirm,
			Logger:  deps.Logger,
		},
		Get: queries.GetTransactionUseCase{
			Transactions: deps.Transactions,
		},
		ListGroupTx: queries.ListGroupTransactionsUseCase{
			Transactions: deps.Transactions,
		},
		ListGroupFeed: queries.ListGroupActivitiesUseCase{
			Activities: deps.Activities,
		},
		ListUserFeed: queries.ListUserActivitiesUseCase{
			Activities: deps.Activities,
		},
		Logger: deps.Logger,
	}

	return Module{Handler: handler}
}

// NewInMemoryModule builds a development/testing module backed by the
// in-memory store and a fake payment gateway.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	gateway := memory.NewGateway()
	module := NewModule(Dependencies{
		Transactions:    store,
		Activities:      store,
		Gateway:         gateway,
		Clock:           store,
		GatewayAttempts: 3,
		Logger:          logger,
	})
	module.Store = store
	module.Gateway = gateway
	return module
}
