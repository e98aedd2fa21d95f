package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateAssignmentCommandIsNotConstructed = errors.New(
	"CreateAssignmentCommand must be created via NewCreateAssignmentCommand constructor",
)

// CreateAssignmentOptions carries the optional fields of a dispatch request.
// Anything left nil or empty is resolved from the order and restaurant
// records during enrichment.
type CreateAssignmentOptions struct {
	RestaurantID     *kernel.UUID
	CustomerID       *kernel.UUID
	PickupAddress    string
	PickupLocation   *kernel.GeoPoint
	DeliveryAddress  string
	DeliveryLocation *kernel.GeoPoint
	DeliveryFee      *float64
	Tip              *float64
	Instructions     string
}

// CreateAssignmentCommand represents a request to dispatch an order to a
// courier. Only the order ID is mandatory; every other field is optional
// and filled in from the foreign data stores when absent.
//
// Example:
//
//	cmd, err := NewCreateAssignmentCommand(orderID, CreateAssignmentOptions{})
//	if err != nil {
//	    return fmt.Errorf("invalid dispatch request: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrOrderAlreadyAssigned):
//	    // the order already has an assignment
//	case errors.Is(err, services.ErrNoCourierAvailable):
//	    // no available partners
//	}
type CreateAssignmentCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	orderID      kernel.UUID
	options      CreateAssignmentOptions

	guard guard.ConstructorGuard
}

// NewCreateAssignmentCommand creates a command to dispatch the given order.
// Automatically generates a unique ID for the assignment. Validates the
// order ID, any supplied coordinates, and that money amounts are not negative.
func NewCreateAssignmentCommand(
	orderID kernel.UUID,
	options CreateAssignmentOptions,
) (CreateAssignmentCommand, error) {
	command := CreateAssignmentCommand{
		assignmentID: kernel.NewUUID(),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setOptions(options),
	); err != nil {
		return CreateAssignmentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateAssignmentCommandIsNotConstructed if validation fails.
func (c CreateAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateAssignmentCommandIsNotConstructed)
}

// AssignmentID returns the generated assignment ID from the command.
func (c CreateAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// OrderID returns the order ID from the command.
func (c CreateAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Options returns the optional dispatch fields from the command.
func (c CreateAssignmentCommand) Options() CreateAssignmentOptions {
	return c.options
}

func (c *CreateAssignmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateAssignmentCommand) setOptions(options CreateAssignmentOptions) error {
	if options.RestaurantID != nil {
		if err := options.RestaurantID.Validate(); err != nil {
			return err
		}
	}
	if options.CustomerID != nil {
		if err := options.CustomerID.Validate(); err != nil {
			return err
		}
	}
	if options.PickupLocation != nil {
		if err := options.PickupLocation.Validate(); err != nil {
			return err
		}
	}
	if options.DeliveryLocation != nil {
		if err := options.DeliveryLocation.Validate(); err != nil {
			return err
		}
	}
	if options.DeliveryFee != nil && *options.DeliveryFee < 0 {
		return errs.NewValueIsInvalidError("delivery fee")
	}
	if options.Tip != nil && *options.Tip < 0 {
		return errs.NewValueIsInvalidError("tip")
	}

	c.options = options
	return nil
}
