package commands

import (
	"context"
	"log/slog"

	application "commonfund/contexts/collective-ledger/transaction-service/application"
	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

// AttributeUserUseCase reassigns the user a transaction is credited to. The
// payment state does not restrict attribution; bookkeeping corrections are
// allowed even after settlement.
type AttributeUserUseCase struct {
	Transactions ports.TransactionRepository
	Activities   ports.ActivityRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc AttributeUserUseCase) Execute(ctx context.Context, transactionID int64, userID int64) (entities.Transaction, error) {
	logger := application.ResolveLogger(uc.Logger)

	tx, err := uc.Transactions.AttributeUser(ctx, transactionID, &userID)
	if err != nil {
		return entities.Transaction{}, err
	}

	_, err = uc.Activities.AppendActivity(ctx, entities.Activity{
		Type:          entities.ActivityTransactionAttributed,
		GroupID:       tx.GroupID,
		UserID:        tx.UserID,
		TransactionID: tx.ID,
		CreatedAt:     uc.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.Transaction{}, err
	}

	logger.Info("transaction attributed",
		"event", "transaction_attributed",
		"module", "collective-ledger/transaction-service",
		"layer", "application",
		"transaction_id", tx.ID,
		"user_id", userID,
	)
	return tx, nil
}
