package errors

import (
	"errors"
	"fmt"
	"strings"

	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrStateConflict        = errors.New("transaction is not in the required state")
	ErrStalePayKey          = errors.New("pay key does not match the transaction")
	ErrSettledTransaction   = errors.New("settled transactions cannot be deleted")
	ErrPaymentGatewayFailed = errors.New("payment gateway failed")
	ErrValidationFailed     = errors.New("validation failed")
)

// StateConflictError names the state a transition required and the state the
// transaction was actually in.
type StateConflictError struct {
	Required entities.State
	Actual   entities.State
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("transaction must be %s, was %s", e.Required, e.Actual)
}

func (e *StateConflictError) Is(target error) bool {
	return target == ErrStateConflict
}

// ValidationError enumerates the offending field names alongside the
// ErrValidationFailed sentinel.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
