package commands

import (
	"context"
	"log/slog"

	application "commonfund/contexts/collective-ledger/transaction-service/application"
	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

// ConfirmPaymentCommand executes and settles a payment. The pay key supplied
// by the caller must be the one this transaction currently holds.
type ConfirmPaymentCommand struct {
	TransactionID int64
	PayKey        string
}

type ConfirmPaymentUseCase struct {
	Transactions ports.TransactionRepository
	Activities   ports.ActivityRepository
	Gateway      ports.PaymentGateway
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc ConfirmPaymentUseCase) Execute(ctx context.Context, cmd ConfirmPaymentCommand) (entities.Transaction, error) {
	logger := application.ResolveLogger(uc.Logger)

	tx, err := uc.Transactions.GetTransaction(ctx, cmd.TransactionID)
	if err != nil {
		return entities.Transaction{}, err
	}
	if tx.State != entities.StatePayKeyRequested {
		return entities.Transaction{}, &domainerrors.StateConflictError{
			Required: entities.StatePayKeyRequested,
			Actual:   tx.State,
		}
	}
	// A stale or foreign key must not execute a payment, whatever its origin.
	if cmd.PayKey == "" || cmd.PayKey != tx.PayKey {
		return entities.Transaction{}, domainerrors.ErrStalePayKey
	}

	if err := uc.Gateway.ConfirmPay(ctx, cmd.PayKey); err != nil {
		logger.Error("payment execution failed",
			"event", "payment_execution_failed",
			"module", "collective-ledger/transaction-service",
			"layer", "application",
			"transaction_id", tx.ID,
			"error", err.Error(),
		)
		return entities.Transaction{}, domainerrors.ErrPaymentGatewayFailed
	}

	// paid and confirmed are distinct machine states but a single
	// caller-visible step; an interleaved observer may see paid briefly.
	if _, err := uc.Transactions.TransitionState(ctx, tx.ID,
		entities.StatePayKeyRequested, entities.StatePaid, ports.StateUpdate{}); err != nil {
		return entities.Transaction{}, err
	}
	settled, err := uc.Transactions.TransitionState(ctx, tx.ID,
		entities.StatePaid, entities.StateConfirmed, ports.StateUpdate{})
	if err != nil {
		return entities.Transaction{}, err
	}

	_, err = uc.Activities.AppendActivity(ctx, entities.Activity{
		Type:          entities.ActivityTransactionPaid,
		GroupID:       settled.GroupID,
		UserID:        settled.UserID,
		TransactionID: settled.ID,
		Data: map[string]any{
			"amount":   settled.Amount,
			"currency": settled.Currency,
		},
		CreatedAt: uc.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.Transaction{}, err
	}

	logger.Info("payment confirmed",
		"event", "payment_confirmed",
		"module", "collective-ledger/transaction-service",
		"layer", "application",
		"transaction_id", settled.ID,
		"group_id", settled.GroupID,
		"amount", settled.Amount,
	)
	return settled, nil
}
