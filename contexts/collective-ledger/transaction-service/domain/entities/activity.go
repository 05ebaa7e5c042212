package entities

import "time"

// Activity types recorded by the payment workflow.
const (
	ActivityTransactionCreated    = "group.transaction.created"
	ActivityTransactionApproved   = "group.transaction.approved"
	ActivityTransactionPaid       = "group.transaction.paid"
	ActivityTransactionAttributed = "group.transaction.attributed"
)

// Activity is an immutable audit record of something that happened to a
// group's ledger. Activities are never updated; the only way one disappears
// is the cascade that runs when its transaction is deleted.
type Activity struct {
	ID            int64
	Type          string
	GroupID       int64
	UserID        *int64
	TransactionID int64
	Data          map[string]any
	CreatedAt     time.Time
}
