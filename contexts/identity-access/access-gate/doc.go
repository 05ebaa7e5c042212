// Package gate decides whether a resolved principal may continue with an
// operation on a bound target resource.
//
// The gate is an explicit ordered list of named predicates rather than an
// implicit middleware stack: each predicate short-circuits the chain with a
// specific sentinel error, and a later predicate may assume every earlier one
// succeeded (GroupRoles assumes a user principal, TransactionBelongsToGroup
// assumes both path entities were bound). Parameter binding itself happens
// before the gate runs, so an unresolvable path identifier is reported as
// not-found before any authorization verdict.
//
// Boundary notes:
// - Predicates are pure functions over (Principal, Target); no I/O here.
// - Membership roles and grants are snapshotted into the Target at binding
//   time; a role revoked mid-request does not fail an in-flight chain.
package gate
