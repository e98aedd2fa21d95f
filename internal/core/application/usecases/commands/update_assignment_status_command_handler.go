package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// UpdateAssignmentStatusCommandHandler moves an assignment through the
// delivery state machine on behalf of its courier. Terminal outcomes
// (Delivered, Cancelled, Failed) also return the courier to Available
// within the same transaction.
type UpdateAssignmentStatusCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
}

// NewUpdateAssignmentStatusCommandHandler creates a handler for lifecycle updates.
func NewUpdateAssignmentStatusCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
) UpdateAssignmentStatusCommandHandler {
	return UpdateAssignmentStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the status update command.
//
// The assignment row is locked for the duration of the transaction.
// Returns errs.ObjectNotFoundError for an unknown assignment,
// assignment.ErrCourierIsNotOwner for a foreign courier, and
// assignment.InvalidTransitionError for an illegal move.
func (h UpdateAssignmentStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateAssignmentStatusCommand,
) error {
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

	if err = aggregate.EnsureOwnedBy(cmd.CourierID()); err != nil {
		return err
	}

	now := time.Now().UTC()
	if cmd.NewStatus() == assignment.Cancelled {
		err = aggregate.Cancel(cmd.Reason(), now)
	} else {
		err = aggregate.ChangeStatus(cmd.NewStatus(), now)
	}
	if err != nil {
		return err
	}

	if err = assignmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if aggregate.Status().IsTerminal() {
		if err = h.releaseCourier(ctx, uow, aggregate.CourierID()); err != nil {
			return err
		}
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

// releaseCourier returns the courier to Available after a terminal outcome.
func (h UpdateAssignmentStatusCommandHandler) releaseCourier(
	ctx context.Context,
	uow UoW,
	courierID kernel.UUID,
) error {
	courierRepo := uow.CourierRepository()

	courierEntity, err := courierRepo.Get(ctx, courierID)
	if err != nil {
		return err
	}

	if err = courierEntity.FinishDelivery(); err != nil {
		return err
	}

	return courierRepo.Update(ctx, courierEntity)
}
