package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)
	// ErrCourierAlreadyOnboarded is returned when the user already has a courier profile.
	ErrCourierAlreadyOnboarded = errors.New("courier profile already exists for this user")
)

// CreateCourierCommand represents a request to onboard a new courier.
// Each user may own at most one courier profile.
//
// Example:
//
//	cmd, err := NewCreateCourierCommand(userID, "John Doe", "+15550100", "bike")
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//
//	handler := NewCreateCourierCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to onboard courier: %w", err)
//	}
//	fmt.Printf("Onboarded courier with ID: %s", cmd.CourierID())
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	userID    kernel.UUID
	name      string
	phone     string
	vehicle   string

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a command to onboard a new courier.
// Automatically generates a unique ID for the courier profile.
// Validates that the user ID is valid and name/phone are not empty.
func NewCreateCourierCommand(userID kernel.UUID, name, phone, vehicle string) (CreateCourierCommand, error) {
	command := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(kernel.NewUUID()),
		command.setUserID(userID),
		command.setName(name),
		command.setPhone(phone),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	command.vehicle = vehicle
	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateCourierCommandIsNotConstructed if validation fails.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the generated courier ID from the command.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// UserID returns the owning user ID from the command.
func (c CreateCourierCommand) UserID() kernel.UUID {
	return c.userID
}

// Name returns the courier display name from the command.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Phone returns the courier contact number from the command.
func (c CreateCourierCommand) Phone() string {
	return c.phone
}

// Vehicle returns the courier vehicle description from the command.
func (c CreateCourierCommand) Vehicle() string {
	return c.vehicle
}

func (c *CreateCourierCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *CreateCourierCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}

	c.phone = phone
	return nil
}
