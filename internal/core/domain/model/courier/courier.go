package courier

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when attempting to create a courier without a phone number.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier represents a delivery partner in the system.
// It is an aggregate root that manages courier identity, availability, and
// live position.
//
// Key responsibilities:
//   - Managing courier identity (ID, owning user ID, name, phone, vehicle)
//   - Enforcing the availability state machine (Available, OnDelivery, Offline)
//   - Tracking the last-known geographic position reported by the courier
//
// Business rules:
//   - A courier belongs to exactly one user; one courier profile per user ID
//   - A new courier starts Available with no known position
//   - Only an Available courier can be matched and switched to OnDelivery
//   - Position may be unknown (nil) until the first location ping arrives
//
// Example usage:
//
//	courier, err := NewCourier(kernel.NewUUID(), userID, "Ravi Kumar", "+919900112233", "Bike - KA01AB1234")
//	if err != nil {
//	    // Handle construction error
//	}
//	// Courier is Available and ready to be matched
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// userID is the identity of the user who owns this courier profile
	userID kernel.UUID
	// name is the courier's display name
	name string
	// phone is the courier's contact number
	phone string
	// vehicle describes the courier's vehicle
	vehicle string
	// availability is the courier's working state
	availability Availability
	// location is the last reported position, nil until the first ping
	location *kernel.GeoPoint
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier with the specified identity.
// This is the only way to create a valid fresh Courier instance.
//
// The new courier starts in the Available state with no known position.
// Vehicle may be empty; name and phone are required.
func NewCourier(id, userID kernel.UUID, name, phone, vehicle string) (*Courier, error) {
	courier := &Courier{
		availability: Available,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setUserID(userID),
		courier.setName(name),
		courier.setPhone(phone),
	); err != nil {
		return nil, err
	}

	courier.vehicle = vehicle
	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
// Unlike NewCourier, this constructor restores the courier to its previously
// persisted availability and position. The restored courier behaves identically
// to one created through normal domain operations.
func RestoreCourier(
	id, userID kernel.UUID,
	name, phone, vehicle string,
	availability Availability,
	location *kernel.GeoPoint,
) (*Courier, error) {
	courier := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setUserID(userID),
		courier.setName(name),
		courier.setPhone(phone),
		courier.setAvailability(availability),
		courier.setLocation(location),
	); err != nil {
		return nil, err
	}

	courier.vehicle = vehicle
	return courier, nil
}

// IsEqual compares two couriers for equality based on their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks if the Courier was properly constructed using a constructor.
// The zero value of Courier is invalid and will fail this validation.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the unique identifier of the courier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// UserID returns the identity of the user owning this courier profile.
func (c *Courier) UserID() kernel.UUID {
	return c.userID
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's contact number.
func (c *Courier) Phone() string {
	return c.phone
}

// Vehicle returns the courier's vehicle description. May be empty.
func (c *Courier) Vehicle() string {
	return c.vehicle
}

// Availability returns the courier's current working state.
func (c *Courier) Availability() Availability {
	return c.availability
}

// Location returns the courier's last reported position.
// Returns nil if the courier has never pinged a location.
func (c *Courier) Location() *kernel.GeoPoint {
	return c.location
}

// StartDelivery switches the courier to OnDelivery when an assignment is
// dispatched to them. Fails unless the courier is Available.
func (c *Courier) StartDelivery() error {
	next, err := c.availability.StartDelivery()
	if err != nil {
		return err
	}

	c.availability = next
	return nil
}

// FinishDelivery returns the courier to Available once their assignment
// reaches a terminal outcome.
func (c *Courier) FinishDelivery() error {
	next, err := c.availability.FinishDelivery()
	if err != nil {
		return err
	}

	c.availability = next
	return nil
}

// GoOffline deactivates the courier. Fails while a delivery is in progress.
func (c *Courier) GoOffline() error {
	next, err := c.availability.GoOffline()
	if err != nil {
		return err
	}

	c.availability = next
	return nil
}

// GoOnline brings an Offline courier back into the matchable pool.
func (c *Courier) GoOnline() error {
	next, err := c.availability.GoOnline()
	if err != nil {
		return err
	}

	c.availability = next
	return nil
}

// UpdateLocation records a new position ping from the courier.
// Position updates are allowed in any availability state; an Offline courier
// keeps its last-known position current for when it comes back online.
func (c *Courier) UpdateLocation(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.location = &point
	return nil
}

// setID sets the courier's unique identifier with validation.
// This is an internal setter used during construction.
func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

// setUserID sets the owning user's identifier with validation.
// This is an internal setter used during construction.
func (c *Courier) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

// setName sets the courier's name with validation.
// This is an internal setter used during construction.
func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

// setPhone sets the courier's phone number with validation.
// This is an internal setter used during construction.
func (c *Courier) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}

	c.phone = phone
	return nil
}

// setAvailability sets the courier's availability state with validation.
// Used during restoration from persistent storage.
func (c *Courier) setAvailability(availability Availability) error {
	if err := availability.Validate(); err != nil {
		return err
	}

	c.availability = availability
	return nil
}

// setLocation sets the courier's last-known position.
// A nil location is valid: the courier has not pinged yet.
func (c *Courier) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		c.location = nil
		return nil
	}

	if err := location.Validate(); err != nil {
		return err
	}

	point := *location
	c.location = &point
	return nil
}
