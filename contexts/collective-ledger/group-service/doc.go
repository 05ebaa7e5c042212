// Package group implements the financial containers of the platform: groups,
// role-bearing user memberships, application grants, and contribution tiers.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: commands/queries using explicit ports
// - ports: stable persistence boundaries
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - A user holds at most one role set per group; (group, user) is unique.
// - Application grants are independent of user membership.
// - The access snapshot query feeds the authorization gate; it reads the
//   group, the caller's roles, and the caller application's grant in one
//   consistent pass.
package group
