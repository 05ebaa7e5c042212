package commands

import (
	"context"
	"log/slog"

	application "commonfund/contexts/collective-ledger/transaction-service/application"
	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

// ApproveTransactionCommand records an approval decision. Approved must be
// present in the payload; false is a recorded no-op, not an error.
type ApproveTransactionCommand struct {
	TransactionID int64
	Approved      *bool
}

type ApproveTransactionUseCase struct {
	Transactions ports.TransactionRepository
	Activities   ports.ActivityRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc ApproveTransactionUseCase) Execute(ctx context.Context, cmd ApproveTransactionCommand) (entities.Transaction, error) {
	logger := application.ResolveLogger(uc.Logger)

	if cmd.Approved == nil {
		return entities.Transaction{}, &domainerrors.ValidationError{Fields: []string{"approved"}}
	}
	if !*cmd.Approved {
		// A declined approval leaves the transaction where it is.
		return uc.Transactions.GetTransaction(ctx, cmd.TransactionID)
	}

	approved := true
	tx, err := uc.Transactions.TransitionState(ctx, cmd.TransactionID,
		entities.StateCreated, entities.StateApproved,
		ports.StateUpdate{Approved: &approved},
	)
	if err != nil {
		return entities.Transaction{}, err
	}

	_, err = uc.Activities.AppendActivity(ctx, entities.Activity{
		Type:          entities.ActivityTransactionApproved,
		GroupID:       tx.GroupID,
		UserID:        tx.UserID,
		TransactionID: tx.ID,
		CreatedAt:     uc.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.Transaction{}, err
	}

	logger.Info("transaction approved",
		"event", "transaction_approved",
		"module", "collective-ledger/transaction-service",
		"layer", "application",
		"transaction_id", tx.ID,
		"group_id", tx.GroupID,
	)
	return tx, nil
}
