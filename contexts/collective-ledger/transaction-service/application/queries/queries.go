package queries

import (
	"context"

	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
	"commonfund/internal/shared/listing"
)

type GetTransactionUseCase struct {
	Transactions ports.TransactionRepository
}

func (uc GetTransactionUseCase) Execute(ctx context.Context, transactionID int64) (entities.Transaction, error) {
	return uc.Transactions.GetTransaction(ctx, transactionID)
}

type ListGroupTransactionsUseCase struct {
	Transactions ports.TransactionRepository
}

func (uc ListGroupTransactionsUseCase) Execute(ctx context.Context, groupID int64, page listing.Page) ([]entities.Transaction, int64, error) {
	return uc.Transactions.ListGroupTransactions(ctx, groupID, page)
}

type ListGroupActivitiesUseCase struct {
	Activities ports.ActivityRepository
}

func (uc ListGroupActivitiesUseCase) Execute(ctx context.Context, groupID int64, page listing.Page) ([]entities.Activity, int64, error) {
	return uc.Activities.ListGroupActivities(ctx, groupID, page)
}

type ListUserActivitiesUseCase struct {
	Activities ports.ActivityRepository
}

func (uc ListUserActivitiesUseCase) Execute(ctx context.Context, userID int64, page listing.Page) ([]entities.Activity, int64, error) {
	return uc.Activities.ListUserActivities(ctx, userID, page)
}
