package entities

import "time"

// State is the payment lifecycle position of a transaction. Transitions are
// forward-only; there is no path back once money has moved.
type State string

const (
	StateCreated         State = "created"
	StateApproved        State = "approved"
	StatePayKeyRequested State = "pay_key_requested"
	StatePaid            State = "paid"
	StateConfirmed       State = "confirmed"
)

// Settled reports whether money has moved for this state. Settled
// transactions can no longer be deleted.
func (s State) Settled() bool {
	return s == StatePaid || s == StateConfirmed
}

// Transaction is a money movement scoped to one group. GroupID never changes
// after creation; UserID is nullable and may be reattributed later.
type Transaction struct {
	ID          int64
	GroupID     int64
	UserID      *int64
	Beneficiary string
	Amount      int64
	Currency    string
	Description string
	State       State
	PayKey      string
	Approved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvalidFields validates the creation payload.
func (t Transaction) InvalidFields() []string {
	var fields []string
	if t.Amount <= 0 {
		fields = append(fields, "amount")
	}
	if len(t.Currency) != 3 {
		fields = append(fields, "currency")
	}
	return fields
}
