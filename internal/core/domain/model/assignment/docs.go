// Package assignment provides domain entities and business logic for delivery
// assignments in the dispatch system. It implements the Assignment aggregate
// root with lifecycle management and courier-ownership checks.
//
// The package includes:
//   - Assignment: The aggregate root binding one order to one courier
//   - Status: A state machine enforcing the delivery workflow transitions
//
// Key business rules:
//   - At most one assignment exists per order
//   - Only the assigned courier may accept or progress an assignment
//   - Every status transition must be listed in the transition table
//   - Cancellation carries a reason; terminal assignments are immutable
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package assignment
