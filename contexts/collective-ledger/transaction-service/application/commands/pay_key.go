package commands

import (
	"context"
	"errors"
	"log/slog"

	application "commonfund/contexts/collective-ledger/transaction-service/application"
	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

// RequestPayKeyUseCase mints a pay key for an approved transaction. The key
// only becomes durable together with the state transition, so a gateway
// failure leaves the transaction approved and retryable. A repeat call on a
// transaction already in pay_key_requested returns the stored key without
// minting a second one.
type RequestPayKeyUseCase struct {
	Transactions ports.TransactionRepository
	Gateway      ports.PaymentGateway
	Attempts     int
	Logger       *slog.Logger
}

func (uc RequestPayKeyUseCase) Execute(ctx context.Context, transactionID int64) (entities.Transaction, error) {
	logger := application.ResolveLogger(uc.Logger)

	tx, err := uc.Transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		return entities.Transaction{}, err
	}
	if tx.State == entities.StatePayKeyRequested {
		return tx, nil
	}
	if tx.State != entities.StateApproved {
		return entities.Transaction{}, &domainerrors.StateConflictError{
			Required: entities.StateApproved,
			Actual:   tx.State,
		}
	}

	key, err := uc.mintPayKey(ctx, tx)
	if err != nil {
		logger.Error("pay key mint failed",
			"event", "pay_key_mint_failed",
			"module", "collective-ledger/transaction-service",
			"layer", "application",
			"transaction_id", tx.ID,
			"error", err.Error(),
		)
		return entities.Transaction{}, domainerrors.ErrPaymentGatewayFailed
	}

	updated, err := uc.Transactions.TransitionState(ctx, tx.ID,
		entities.StateApproved, entities.StatePayKeyRequested,
		ports.StateUpdate{PayKey: &key},
	)
	if err != nil {
		// A concurrent caller won the swap; its key is the durable one and
		// this caller must not hand out the orphaned mint.
		return entities.Transaction{}, err
	}

	logger.Info("pay key requested",
		"event", "pay_key_requested",
		"module", "collective-ledger/transaction-service",
		"layer", "application",
		"transaction_id", updated.ID,
		"group_id", updated.GroupID,
	)
	return updated, nil
}

func (uc RequestPayKeyUseCase) mintPayKey(ctx context.Context, tx entities.Transaction) (string, error) {
	attempts := uc.Attempts
	if attempts < 1 {
		attempts = 1
	}
	req := ports.PayRequest{
		Beneficiary: tx.Beneficiary,
		Amount:      tx.Amount,
		Currency:    tx.Currency,
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		key, err := uc.Gateway.MintPayKey(ctx, req)
		if err == nil {
			return key, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
