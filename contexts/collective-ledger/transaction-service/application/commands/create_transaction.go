package commands

import (
	"context"
	"log/slog"
	"strings"

	application "commonfund/contexts/collective-ledger/transaction-service/application"
	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

// CreateTransactionCommand opens a transaction in state created. UserID is
// the resolved caller when one exists; attribution can change it later.
type CreateTransactionCommand struct {
	GroupID     int64
	UserID      *int64
	Beneficiary string
	Amount      int64
	Currency    string
	Description string
}

type CreateTransactionUseCase struct {
	Transactions ports.TransactionRepository
	Activities   ports.ActivityRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc CreateTransactionUseCase) Execute(ctx context.Context, cmd CreateTransactionCommand) (entities.Transaction, error) {
	logger := application.ResolveLogger(uc.Logger)

	now := uc.Clock.Now().UTC()
	tx := entities.Transaction{
		GroupID:     cmd.GroupID,
		UserID:      cmd.UserID,
		Beneficiary: strings.TrimSpace(cmd.Beneficiary),
		Amount:      cmd.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(cmd.Currency)),
		Description: strings.TrimSpace(cmd.Description),
		State:       entities.StateCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if fields := tx.InvalidFields(); len(fields) > 0 {
		return entities.Transaction{}, &domainerrors.ValidationError{Fields: fields}
	}

	created, err := uc.Transactions.CreateTransaction(ctx, tx)
	if err != nil {
		return entities.Transaction{}, err
	}

	_, err = uc.Activities.AppendActivity(ctx, entities.Activity{
		Type:          entities.ActivityTransactionCreated,
		GroupID:       created.GroupID,
		UserID:        created.UserID,
		TransactionID: created.ID,
		Data: map[string]any{
			"amount":   created.Amount,
			"currency": created.Currency,
		},
		CreatedAt: now,
	})
	if err != nil {
		return entities.Transaction{}, err
	}

	logger.Info("transaction created",
		"event", "transaction_created",
		"module", "collective-ledger/transaction-service",
		"layer", "application",
		"transaction_id", created.ID,
		"group_id", created.GroupID,
		"amount", created.Amount,
	)
	return created, nil
}
