package commands

import (
	"context"
	"log/slog"

	application "commonfund/contexts/collective-ledger/transaction-service/application"
	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

// DeleteTransactionUseCase removes a transaction that has not settled. The
// row is retained under a deletion marker while its activities are removed
// for real, in the same database transaction.
type DeleteTransactionUseCase struct {
	Transactions ports.TransactionRepository
	Logger       *slog.Logger
}

func (uc DeleteTransactionUseCase) Execute(ctx context.Context, transactionID int64) error {
	logger := application.ResolveLogger(uc.Logger)

	tx, err := uc.Transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if tx.State != entities.StateCreated && tx.State != entities.StateApproved {
		return domainerrors.ErrSettledTransaction
	}

	if err := uc.Transactions.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}

	logger.Info("transaction deleted",
		"event", "transaction_deleted",
		"module", "collective-ledger/transaction-service",
		"layer", "application",
		"transaction_id", transactionID,
		"group_id", tx.GroupID,
	)
	return nil
}
