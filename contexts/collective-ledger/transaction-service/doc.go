// Package transaction owns the payment workflow of a group's ledger: the
// transaction state machine (created, approved, pay_key_requested, paid,
// confirmed), the pay-key exchange with the payment gateway, and the
// activity feed derived from it.
//
// State transitions are persisted with a compare-and-swap on the prior
// state, so concurrent writers cannot both advance the same transaction.
package transaction
