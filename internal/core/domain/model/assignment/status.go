package assignment

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ErrInvalidTransition is the unwrap target for InvalidTransitionError.
// Callers classify illegal state-machine moves with errors.Is.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of a delivery assignment.
// It implements a state machine with defined transitions to ensure
// assignments follow the correct delivery workflow.
//
// State transitions:
//
//	Assigned ──> Accepted ──> HeadingToPickup ──> ArrivedAtPickup ──> PickedUp
//	    │            │               │                   │               │
//	    └────────────┴───────────────┴─── Cancelled ─────┴───────────────┤
//	                                          ▲                          │
//	                                          │                          ▼
//	            Delivered / Failed <── ArrivedAtDelivery <── HeadingToDelivery
//
// Delivered, Cancelled, and Failed are terminal. From ArrivedAtDelivery
// only Delivered or Failed are reachable; every earlier state may be cancelled.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Assigned is the initial status: a courier has been matched but has not
	// yet accepted the assignment.
	Assigned

	// Accepted means the courier confirmed the assignment.
	Accepted

	// HeadingToPickup means the courier is travelling to the restaurant.
	HeadingToPickup

	// ArrivedAtPickup means the courier reached the restaurant.
	ArrivedAtPickup

	// PickedUp means the courier collected the order.
	PickedUp

	// HeadingToDelivery means the courier is travelling to the customer.
	HeadingToDelivery

	// ArrivedAtDelivery means the courier reached the customer.
	ArrivedAtDelivery

	// Delivered is the terminal status of a successful delivery.
	Delivered

	// Cancelled is the terminal status of a cancelled assignment.
	Cancelled

	// Failed is the terminal status of a delivery that could not be completed
	// after the courier arrived at the customer.
	Failed
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:     "Unknown",
		Assigned:          "Assigned",
		Accepted:          "Accepted",
		HeadingToPickup:   "HeadingToPickup",
		ArrivedAtPickup:   "ArrivedAtPickup",
		PickedUp:          "PickedUp",
		HeadingToDelivery: "HeadingToDelivery",
		ArrivedAtDelivery: "ArrivedAtDelivery",
		Delivered:         "Delivered",
		Cancelled:         "Cancelled",
		Failed:            "Failed",
	}
}

// getAllowedTransitions returns the complete transition table of the
// assignment lifecycle. Any move not listed here is illegal.
func getAllowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Assigned:          {Accepted, Cancelled},
		Accepted:          {HeadingToPickup, Cancelled},
		HeadingToPickup:   {ArrivedAtPickup, Cancelled},
		ArrivedAtPickup:   {PickedUp, Cancelled},
		PickedUp:          {HeadingToDelivery, Cancelled},
		HeadingToDelivery: {ArrivedAtDelivery, Cancelled},
		ArrivedAtDelivery: {Delivered, Failed},
	}
}

// InvalidTransitionError reports an illegal state-machine move, naming both
// the current and the requested status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given move.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

// Validate checks if the Status value is valid.
// StatusUnknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the human-readable name of the status.
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status ends the assignment lifecycle.
// Terminal assignments are immutable except for read access.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}

// IsInFlight reports whether a courier location ping should be propagated
// to an assignment in this status. Arrival statuses are excluded: the courier
// is stationary at a known endpoint.
func (s Status) IsInFlight() bool {
	switch s {
	case Assigned, Accepted, HeadingToPickup, PickedUp, HeadingToDelivery:
		return true
	case StatusUnknown, ArrivedAtPickup, ArrivedAtDelivery, Delivered, Cancelled, Failed:
		return false
	}
	return false
}

// CanTransition reports whether moving to next is allowed by the
// transition table.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range getAllowedTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates and performs a state-machine move.
//
// Returns:
//   - Status: the next status when the move is legal
//   - error: InvalidTransitionError naming both states otherwise
func (s Status) Transition(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return StatusUnknown, err
	}

	if !s.CanTransition(next) {
		return StatusUnknown, NewInvalidTransitionError(s, next)
	}

	return next, nil
}

// StatusFromString parses the persisted string form of a status.
// Returns an error for unrecognized values.
func StatusFromString(raw string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == raw && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid status", raw),
	)
}
