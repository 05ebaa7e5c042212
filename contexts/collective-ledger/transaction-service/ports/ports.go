package ports

import (
	"context"
	"time"

	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	"commonfund/internal/shared/listing"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// StateUpdate carries the column changes a state transition applies
// alongside the compare-and-swap itself. Nil fields are left untouched.
type StateUpdate struct {
	PayKey   *string
	Approved *bool
}

// TransactionRepository persists transactions. All lookups exclude deleted
// rows.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx entities.Transaction) (entities.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (entities.Transaction, error)
	// TransitionState advances id from the given prior state, applying the
	// update atomically with the state change. When the row exists but is
	// not in the prior state it returns a StateConflictError.
	TransitionState(ctx context.Context, id int64, from, to entities.State, update StateUpdate) (entities.Transaction, error)
	AttributeUser(ctx context.Context, id int64, userID *int64) (entities.Transaction, error)
	// DeleteTransaction logically deletes an unsettled transaction and
	// physically removes its activities in the same database transaction.
	DeleteTransaction(ctx context.Context, id int64) error
	ListGroupTransactions(ctx context.Context, groupID int64, page listing.Page) ([]entities.Transaction, int64, error)
}

// ActivityRepository appends and lists the immutable activity feed.
type ActivityRepository interface {
	AppendActivity(ctx context.Context, activity entities.Activity) (entities.Activity, error)
	ListGroupActivities(ctx context.Context, groupID int64, page listing.Page) ([]entities.Activity, int64, error)
	ListUserActivities(ctx context.Context, userID int64, page listing.Page) ([]entities.Activity, int64, error)
}

// PayRequest is what the gateway needs to mint a pay key.
type PayRequest struct {
	Beneficiary string
	Amount      int64
	Currency    string
}

// PaymentGateway is the outbound port to the payment provider.
type PaymentGateway interface {
	MintPayKey(ctx context.Context, req PayRequest) (string, error)
	ConfirmPay(ctx context.Context, key string) error
}
