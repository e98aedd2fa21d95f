// Package services provides domain services that implement business logic
// spanning multiple aggregates in the dispatch system.
//
// The package includes:
//   - CourierMatcher: selects the nearest available courier for a pickup point
//   - RouteEstimator: computes distance and travel-time estimates for a route
//
// Domain services hold no state of their own beyond configuration and operate
// purely on domain model values, following Domain-Driven Design principles.
package services
