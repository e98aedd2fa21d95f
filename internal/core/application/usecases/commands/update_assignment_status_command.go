package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateAssignmentStatusCommandIsNotConstructed = errors.New(
	"UpdateAssignmentStatusCommand must be created via NewUpdateAssignmentStatusCommand constructor",
)

// UpdateAssignmentStatusCommand represents a courier moving an assignment
// through its delivery lifecycle. A cancellation may carry a reason.
type UpdateAssignmentStatusCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	courierID    kernel.UUID
	newStatus    assignment.Status
	reason       string

	guard guard.ConstructorGuard
}

// NewUpdateAssignmentStatusCommand creates a command to move the assignment
// to newStatus on behalf of the given courier. The reason is only meaningful
// for cancellations and is ignored otherwise.
func NewUpdateAssignmentStatusCommand(
	assignmentID, courierID kernel.UUID,
	newStatus assignment.Status,
	reason string,
) (UpdateAssignmentStatusCommand, error) {
	command := UpdateAssignmentStatusCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setAssignmentID(assignmentID),
		command.setCourierID(courierID),
		command.setNewStatus(newStatus),
	); err != nil {
		return UpdateAssignmentStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateAssignmentStatusCommandIsNotConstructed if validation fails.
func (c UpdateAssignmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAssignmentStatusCommandIsNotConstructed)
}

// AssignmentID returns the assignment ID from the command.
func (c UpdateAssignmentStatusCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// CourierID returns the acting courier's ID from the command.
func (c UpdateAssignmentStatusCommand) CourierID() kernel.UUID {
	return c.courierID
}

// NewStatus returns the requested target status from the command.
func (c UpdateAssignmentStatusCommand) NewStatus() assignment.Status {
	return c.newStatus
}

// Reason returns the cancellation reason from the command.
func (c UpdateAssignmentStatusCommand) Reason() string {
	return c.reason
}

func (c *UpdateAssignmentStatusCommand) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	c.assignmentID = assignmentID
	return nil
}

func (c *UpdateAssignmentStatusCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *UpdateAssignmentStatusCommand) setNewStatus(newStatus assignment.Status) error {
	if err := newStatus.Validate(); err != nil {
		return err
	}

	c.newStatus = newStatus
	return nil
}
