package commands

import (
	"context"
	"log/slog"
	"strings"

	application "commonfund/contexts/collective-ledger/transaction-service/application"
	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
)

// CreateDonationCommand takes a backer's payment through the whole workflow
// in one request: create, approve, mint a pay key, execute and settle.
type CreateDonationCommand struct {
	GroupID     int64
	UserID      *int64
	Amount      int64
	Currency    string
	Description string
	Service     string
}

type CreateDonationUseCase struct {
	Create  CreateTransactionUseCase
	Approve ApproveTransactionUseCase
	PayKey  RequestPayKeyUseCase
	Confirm ConfirmPaymentUseCase
	Logger  *slog.Logger
}

func (uc CreateDonationUseCase) Execute(ctx context.Context, cmd CreateDonationCommand) (entities.Transaction, error) {
	logger := application.ResolveLogger(uc.Logger)

	if strings.ToLower(strings.TrimSpace(cmd.Service)) != "paypal" {
		return entities.Transaction{}, &domainerrors.ValidationError{Fields: []string{"service"}}
	}

	created, err := uc.Create.Execute(ctx, CreateTransactionCommand{
		GroupID:     cmd.GroupID,
		UserID:      cmd.UserID,
		Amount:      cmd.Amount,
		Currency:    cmd.Currency,
		Description: cmd.Description,
	})
	if err != nil {
		return entities.Transaction{}, err
	}

	approved := true
	if _, err := uc.Approve.Execute(ctx, ApproveTransactionCommand{
		TransactionID: created.ID,
		Approved:      &approved,
	}); err != nil {
		return entities.Transaction{}, err
	}

	keyed, err := uc.PayKey.Execute(ctx, created.ID)
	if err != nil {
		return entities.Transaction{}, err
	}

	settled, err := uc.Confirm.Execute(ctx, ConfirmPaymentCommand{
		TransactionID: keyed.ID,
		PayKey:        keyed.PayKey,
	})
	if err != nil {
		return entities.Transaction{}, err
	}

	logger.Info("donation settled",
		"event", "donation_settled",
		"module", "collective-ledger/transaction-service",
		"layer", "application",
		"transaction_id", settled.ID,
		"group_id", settled.GroupID,
		"amount", settled.Amount,
	)
	return settled, nil
}
