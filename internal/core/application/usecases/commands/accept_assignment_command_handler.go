package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// AcceptAssignmentCommandHandler handles the courier's acknowledgement of a
// dispatch. Only the assigned courier may accept, and only from the
// Assigned status.
type AcceptAssignmentCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
}

// NewAcceptAssignmentCommandHandler creates a handler for assignment acceptance.
func NewAcceptAssignmentCommandHandler(uowFactory UoWFactory, notifier ports.Notifier) AcceptAssignmentCommandHandler {
	return AcceptAssignmentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the accept command.
//
// The assignment row is locked for the duration of the transaction so a
// concurrent accept or status update on the same assignment serializes
// behind this one. Returns errs.ObjectNotFoundError for an unknown
// assignment, assignment.ErrCourierIsNotOwner for a foreign courier, and
// assignment.InvalidTransitionError when the assignment is past Assigned.
func (h AcceptAssignmentCommandHandler) Handle(ctx context.Context, cmd AcceptAssignmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignmentRepo := uow.AssignmentRepository()

	aggregate, err := assignmentRepo.GetForUpdate(ctx, cmd.AssignmentID())
	if err != nil {
		return err
	}

	if err = aggregate.Accept(cmd.CourierID(), time.Now().UTC()); err != nil {
		return err
	}

	if err = assignmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Notify(ports.DispatchEvent{
		AssignmentID: aggregate.ID(),
		OrderID:      aggregate.OrderID(),
		CourierID:    aggregate.CourierID(),
		Status:       aggregate.Status().String(),
		OccurredAt:   aggregate.UpdatedAt(),
	})

	return nil
}
