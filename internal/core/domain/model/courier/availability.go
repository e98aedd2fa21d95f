package courier

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Availability represents the working state of a courier.
// It implements a small state machine so couriers cannot enter
// inconsistent states.
//
// State transitions:
//
//	Available ──> OnDelivery ──> Available
//	Available <─> Offline
//
// Availability is a value object that validates state transitions
// and provides string representations for persistence and display.
type Availability int

const (
	// AvailabilityUnknown represents an invalid or undefined state.
	// This value (0) helps catch uninitialized Availability values.
	AvailabilityUnknown Availability = iota

	// Available means the courier is online and can be matched to a new assignment.
	Available

	// OnDelivery means the courier is actively working an assignment.
	OnDelivery

	// Offline means the courier is not accepting work.
	Offline
)

// getAvailabilityStrings returns a map of Availability values to their string
// representations. All states are included for string conversion.
func getAvailabilityStrings() map[Availability]string {
	return map[Availability]string{
		AvailabilityUnknown: "Unknown",
		Available:           "Available",
		OnDelivery:          "OnDelivery",
		Offline:             "Offline",
	}
}

// getValidAvailabilityStrings returns a map of only valid Availability values.
func getValidAvailabilityStrings() map[Availability]string {
	//nolint:exhaustive // AvailabilityUnknown is intentionally excluded as it's invalid
	return map[Availability]string{
		Available:  "Available",
		OnDelivery: "OnDelivery",
		Offline:    "Offline",
	}
}

// Validate checks if the Availability value is valid.
// Valid states are: Available, OnDelivery, Offline.
func (a Availability) Validate() error {
	if _, ok := getValidAvailabilityStrings()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"availability is invalid",
			fmt.Errorf("%d is not a valid availability state", a),
		)
	}
	return nil
}

// String returns the human-readable name of the state.
// This method implements the fmt.Stringer interface and is safe
// to call on any Availability value, including invalid ones.
func (a Availability) String() string {
	if str, ok := getAvailabilityStrings()[a]; ok {
		return str
	}
	return "Unknown"
}

// StartDelivery transitions the courier to OnDelivery.
// Only an Available courier can start a delivery.
func (a Availability) StartDelivery() (Availability, error) {
	if a != Available {
		return AvailabilityUnknown, errs.NewValueIsInvalidErrorWithCause(
			"availability is invalid",
			fmt.Errorf("%s courier cannot start a delivery", a),
		)
	}
	return OnDelivery, nil
}

// FinishDelivery returns the courier to Available after a delivery reaches
// a terminal outcome.
func (a Availability) FinishDelivery() (Availability, error) {
	if a != OnDelivery {
		return AvailabilityUnknown, errs.NewValueIsInvalidErrorWithCause(
			"availability is invalid",
			fmt.Errorf("%s courier has no delivery to finish", a),
		)
	}
	return Available, nil
}

// GoOffline deactivates an Available courier.
// Couriers working an assignment must finish it first.
func (a Availability) GoOffline() (Availability, error) {
	if a != Available {
		return AvailabilityUnknown, errs.NewValueIsInvalidErrorWithCause(
			"availability is invalid",
			fmt.Errorf("%s courier cannot go offline", a),
		)
	}
	return Offline, nil
}

// GoOnline brings an Offline courier back to Available.
func (a Availability) GoOnline() (Availability, error) {
	if a != Offline {
		return AvailabilityUnknown, errs.NewValueIsInvalidErrorWithCause(
			"availability is invalid",
			fmt.Errorf("%s courier cannot go online", a),
		)
	}
	return Available, nil
}
