// Package courier provides domain entities and business logic for courier
// management in the dispatch system. It implements the Courier aggregate root
// with availability and live-position handling.
//
// The package includes:
//   - Courier: The aggregate root managing courier identity, availability, and position
//   - Availability: A state machine over Available, OnDelivery, and Offline
//
// Key business rules:
//   - Couriers must have a valid unique identifier, owning user, name, and phone
//   - Only an Available courier can be switched to OnDelivery
//   - Couriers return to Available when their assignment reaches a terminal outcome
//   - Position is unknown until the courier's first location ping
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package courier
