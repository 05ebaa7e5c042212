// Package principal implements caller identity for the platform: user
// registration and password authentication, application API keys, PayPal
// preapproval state, and per-request principal resolution.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries using explicit ports
// - ports: stable boundaries for persistence, token signing, and the
//   preapproval side of the payment gateway
// - adapters: concrete HTTP, memory, postgres, and JWT implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Keep this module self-contained under the identity-access context.
// - Resolution order is fixed: API key first (identifies an application),
//   then bearer credential (identifies a user). A present-but-invalid
//   credential is a hard failure; an absent credential is not.
package principal
