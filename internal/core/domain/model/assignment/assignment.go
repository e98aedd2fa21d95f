package assignment

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for assignment operations.
var (
	// ErrAssignmentIsNotConstructed is returned when using an improperly initialized Assignment.
	ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")
	// ErrCourierIsNotOwner is returned when a courier acts on an assignment
	// that belongs to a different courier.
	ErrCourierIsNotOwner = errors.New("assignment belongs to a different courier")
	// ErrAssignmentIsTerminal is returned when mutating an assignment whose
	// status already reached a terminal value.
	ErrAssignmentIsTerminal = errors.New("assignment is in a terminal status")
	// ErrPickupAddressIsRequired is returned when creating an assignment without a pickup address.
	ErrPickupAddressIsRequired = errs.NewValueIsRequiredError("pickup address")
	// ErrDeliveryAddressIsRequired is returned when creating an assignment without a delivery address.
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("delivery address")
)

// Details carries the descriptive fields of a new assignment: the parties,
// both endpoints, route estimates, and money amounts. Identity and lifecycle
// fields are managed by the aggregate itself.
type Details struct {
	RestaurantID         kernel.UUID
	CustomerID           kernel.UUID
	PickupAddress        string
	PickupLocation       kernel.GeoPoint
	DeliveryAddress      string
	DeliveryLocation     kernel.GeoPoint
	EstimatedDistanceKm  float64
	EstimatedDurationMin int
	DeliveryFee          float64
	Tip                  float64
	Instructions         string
}

// Assignment represents the binding between exactly one order and exactly one
// courier, tracking the delivery from dispatch to a terminal outcome.
// It is an aggregate root.
//
// Key responsibilities:
//   - Enforcing the assignment status state machine
//   - Stamping lifecycle timestamps as statuses are entered
//   - Guarding courier ownership for accept and status updates
//   - Mirroring the courier's live position while the assignment is active
//
// Business rules:
//   - At most one assignment exists per order (enforced by the store)
//   - Only the assigned courier may accept or progress the assignment
//   - A terminal assignment (Delivered, Cancelled, Failed) is immutable
type Assignment struct {
	// id uniquely identifies the assignment
	id kernel.UUID
	// orderID is the order this assignment delivers, unique across assignments
	orderID kernel.UUID
	// courierID is the courier matched to this assignment
	courierID kernel.UUID
	// restaurantID identifies the pickup party
	restaurantID kernel.UUID
	// customerID identifies the delivery party
	customerID kernel.UUID
	// status is the current state in the delivery lifecycle
	status Status
	// pickupAddress and pickupLocation describe the restaurant endpoint
	pickupAddress  string
	pickupLocation kernel.GeoPoint
	// deliveryAddress and deliveryLocation describe the customer endpoint
	deliveryAddress  string
	deliveryLocation kernel.GeoPoint
	// currentLocation mirrors the courier's position while active, nil if unknown
	currentLocation *kernel.GeoPoint
	// estimatedDistanceKm is the pickup-to-delivery great-circle estimate
	estimatedDistanceKm float64
	// estimatedDurationMin is the whole-minute travel time estimate
	estimatedDurationMin int
	// deliveryFee and tip are the money amounts attached at dispatch
	deliveryFee float64
	tip         float64
	// instructions are optional special instructions from the customer
	instructions string
	// cancelReason records why the assignment was cancelled, if it was
	cancelReason string

	createdAt   time.Time
	updatedAt   time.Time
	acceptedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	// guard ensures the assignment was properly constructed
	guard guard.ConstructorGuard
}

// NewAssignment creates a freshly dispatched assignment in Assigned status.
// This is the only way to create a valid new Assignment instance.
//
// Parameters:
//   - id: Unique identifier for the assignment
//   - orderID: The order being delivered
//   - courierID: The matched courier
//   - details: Parties, endpoints, estimates, and money amounts
//   - courierLocation: The courier's position at match time, used as the
//     initial current position (may be nil if unknown)
//   - now: Creation timestamp
func NewAssignment(
	id, orderID, courierID kernel.UUID,
	details Details,
	courierLocation *kernel.GeoPoint,
	now time.Time,
) (*Assignment, error) {
	a := &Assignment{
		status:    Assigned,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setCourierID(courierID),
		a.setParties(details.RestaurantID, details.CustomerID),
		a.setPickup(details.PickupAddress, details.PickupLocation),
		a.setDelivery(details.DeliveryAddress, details.DeliveryLocation),
		a.setCurrentLocation(courierLocation),
	); err != nil {
		return nil, err
	}

	a.estimatedDistanceKm = details.EstimatedDistanceKm
	a.estimatedDurationMin = details.EstimatedDurationMin
	a.deliveryFee = details.DeliveryFee
	a.tip = details.Tip
	a.instructions = details.Instructions
	return a, nil
}

// RestoredState carries the lifecycle fields of a persisted assignment.
type RestoredState struct {
	Status       Status
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	AcceptedAt   *time.Time
	PickedUpAt   *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
}

// RestoreAssignment reconstructs an Assignment aggregate from persistent
// storage, including its status, current position, and timestamp trail.
// The restored assignment behaves identically to one created through normal
// domain operations.
func RestoreAssignment(
	id, orderID, courierID kernel.UUID,
	details Details,
	currentLocation *kernel.GeoPoint,
	state RestoredState,
) (*Assignment, error) {
	a := &Assignment{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setCourierID(courierID),
		a.setParties(details.RestaurantID, details.CustomerID),
		a.setPickup(details.PickupAddress, details.PickupLocation),
		a.setDelivery(details.DeliveryAddress, details.DeliveryLocation),
		a.setCurrentLocation(currentLocation),
		a.setStatus(state.Status),
	); err != nil {
		return nil, err
	}

	a.estimatedDistanceKm = details.EstimatedDistanceKm
	a.estimatedDurationMin = details.EstimatedDurationMin
	a.deliveryFee = details.DeliveryFee
	a.tip = details.Tip
	a.instructions = details.Instructions
	a.cancelReason = state.CancelReason
	a.createdAt = state.CreatedAt
	a.updatedAt = state.UpdatedAt
	a.acceptedAt = state.AcceptedAt
	a.pickedUpAt = state.PickedUpAt
	a.deliveredAt = state.DeliveredAt
	a.cancelledAt = state.CancelledAt
	return a, nil
}

// IsEqual compares two assignments for equality based on their unique identifiers.
func (a *Assignment) IsEqual(other *Assignment) bool {
	if other == nil {
		return false
	}
	return a.id.IsEqual(other.id)
}

// Validate checks if the Assignment was properly constructed using a constructor.
// The zero value of Assignment is invalid and will fail this validation.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// ID returns the unique identifier of the assignment.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the identifier of the delivered order.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// CourierID returns the identifier of the matched courier.
func (a *Assignment) CourierID() kernel.UUID {
	return a.courierID
}

// RestaurantID returns the identifier of the pickup party.
func (a *Assignment) RestaurantID() kernel.UUID {
	return a.restaurantID
}

// CustomerID returns the identifier of the delivery party.
func (a *Assignment) CustomerID() kernel.UUID {
	return a.customerID
}

// Status returns the current lifecycle status.
func (a *Assignment) Status() Status {
	return a.status
}

// PickupAddress returns the restaurant endpoint address.
func (a *Assignment) PickupAddress() string {
	return a.pickupAddress
}

// PickupLocation returns the restaurant endpoint coordinates.
func (a *Assignment) PickupLocation() kernel.GeoPoint {
	return a.pickupLocation
}

// DeliveryAddress returns the customer endpoint address.
func (a *Assignment) DeliveryAddress() string {
	return a.deliveryAddress
}

// DeliveryLocation returns the customer endpoint coordinates.
func (a *Assignment) DeliveryLocation() kernel.GeoPoint {
	return a.deliveryLocation
}

// CurrentLocation returns the courier's last mirrored position for this
// assignment. Returns nil while the position is unknown.
func (a *Assignment) CurrentLocation() *kernel.GeoPoint {
	return a.currentLocation
}

// EstimatedDistanceKm returns the pickup-to-delivery distance estimate.
func (a *Assignment) EstimatedDistanceKm() float64 {
	return a.estimatedDistanceKm
}

// EstimatedDurationMin returns the travel time estimate in whole minutes.
func (a *Assignment) EstimatedDurationMin() int {
	return a.estimatedDurationMin
}

// DeliveryFee returns the delivery fee attached at dispatch.
func (a *Assignment) DeliveryFee() float64 {
	return a.deliveryFee
}

// Tip returns the tip attached at dispatch.
func (a *Assignment) Tip() float64 {
	return a.tip
}

// Instructions returns the optional special instructions. May be empty.
func (a *Assignment) Instructions() string {
	return a.instructions
}

// CancelReason returns why the assignment was cancelled. Empty unless Cancelled.
func (a *Assignment) CancelReason() string {
	return a.cancelReason
}

// CreatedAt returns the dispatch timestamp.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns the timestamp of the last mutation.
func (a *Assignment) UpdatedAt() time.Time {
	return a.updatedAt
}

// AcceptedAt returns when the courier accepted, nil if never accepted.
func (a *Assignment) AcceptedAt() *time.Time {
	return a.acceptedAt
}

// PickedUpAt returns when the order was collected, nil if not yet.
func (a *Assignment) PickedUpAt() *time.Time {
	return a.pickedUpAt
}

// DeliveredAt returns when the order was delivered, nil if not delivered.
func (a *Assignment) DeliveredAt() *time.Time {
	return a.deliveredAt
}

// CancelledAt returns when the assignment was cancelled, nil if not cancelled.
func (a *Assignment) CancelledAt() *time.Time {
	return a.cancelledAt
}

// EnsureOwnedBy verifies that the acting courier is the assigned courier.
//
// Returns:
//   - nil when courierID matches the assignment's courier
//   - ErrCourierIsNotOwner otherwise
func (a *Assignment) EnsureOwnedBy(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if !a.courierID.IsEqual(courierID) {
		return ErrCourierIsNotOwner
	}
	return nil
}

// Accept records the assigned courier's confirmation of the assignment.
//
// Business rules:
//   - Only the assigned courier may accept (ErrCourierIsNotOwner otherwise)
//   - The assignment must be in Assigned status (InvalidTransitionError otherwise)
//
// On success the status becomes Accepted and the acceptance time is stamped.
func (a *Assignment) Accept(courierID kernel.UUID, now time.Time) error {
	if err := a.EnsureOwnedBy(courierID); err != nil {
		return err
	}

	next, err := a.status.Transition(Accepted)
	if err != nil {
		return err
	}

	a.status = next
	a.acceptedAt = &now
	a.updatedAt = now
	return nil
}

// ChangeStatus performs a lifecycle transition to any status other than
// Cancelled (which carries a reason and goes through Cancel).
//
// Timestamp side effects on entering a status:
//   - Accepted: acceptance time
//   - PickedUp: pickup time
//   - Delivered: delivery time
//
// Returns InvalidTransitionError naming both states for illegal moves.
func (a *Assignment) ChangeStatus(next Status, now time.Time) error {
	if next == Cancelled {
		return NewInvalidTransitionError(a.status, next)
	}

	updated, err := a.status.Transition(next)
	if err != nil {
		return err
	}

	a.status = updated
	a.updatedAt = now

	//nolint:exhaustive // only timestamp-bearing statuses need stamping
	switch updated {
	case Accepted:
		a.acceptedAt = &now
	case PickedUp:
		a.pickedUpAt = &now
	case Delivered:
		a.deliveredAt = &now
	}

	return nil
}

// Cancel transitions the assignment to Cancelled, stamping the cancellation
// time and recording the reason. Fails with InvalidTransitionError from
// statuses where cancellation is not allowed (terminal states and
// ArrivedAtDelivery).
func (a *Assignment) Cancel(reason string, now time.Time) error {
	next, err := a.status.Transition(Cancelled)
	if err != nil {
		return err
	}

	a.status = next
	a.cancelReason = reason
	a.cancelledAt = &now
	a.updatedAt = now
	return nil
}

// UpdateCurrentLocation mirrors a courier position ping onto the assignment.
// Terminal assignments are immutable and reject the update.
func (a *Assignment) UpdateCurrentLocation(point kernel.GeoPoint, now time.Time) error {
	if a.status.IsTerminal() {
		return ErrAssignmentIsTerminal
	}

	if err := point.Validate(); err != nil {
		return err
	}

	a.currentLocation = &point
	a.updatedAt = now
	return nil
}

// setID sets the assignment's unique identifier with validation.
// This is an internal setter used during construction.
func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

// setOrderID sets the delivered order's identifier with validation.
// This is an internal setter used during construction.
func (a *Assignment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	a.orderID = orderID
	return nil
}

// setCourierID sets the matched courier's identifier with validation.
// This is an internal setter used during construction.
func (a *Assignment) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	a.courierID = courierID
	return nil
}

// setParties sets the restaurant and customer identifiers with validation.
// This is an internal setter used during construction.
func (a *Assignment) setParties(restaurantID, customerID kernel.UUID) error {
	if err := errors.Join(restaurantID.Validate(), customerID.Validate()); err != nil {
		return err
	}
	a.restaurantID = restaurantID
	a.customerID = customerID
	return nil
}

// setPickup sets the restaurant endpoint with validation.
// This is an internal setter used during construction.
func (a *Assignment) setPickup(address string, location kernel.GeoPoint) error {
	if address == "" {
		return ErrPickupAddressIsRequired
	}
	if err := location.Validate(); err != nil {
		return err
	}
	a.pickupAddress = address
	a.pickupLocation = location
	return nil
}

// setDelivery sets the customer endpoint with validation.
// This is an internal setter used during construction.
func (a *Assignment) setDelivery(address string, location kernel.GeoPoint) error {
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}
	if err := location.Validate(); err != nil {
		return err
	}
	a.deliveryAddress = address
	a.deliveryLocation = location
	return nil
}

// setCurrentLocation sets the mirrored courier position.
// A nil location is valid: the courier has not pinged yet.
func (a *Assignment) setCurrentLocation(location *kernel.GeoPoint) error {
	if location == nil {
		a.currentLocation = nil
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	point := *location
	a.currentLocation = &point
	return nil
}

// setStatus sets the lifecycle status with validation.
// Used during restoration from persistent storage.
func (a *Assignment) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}
