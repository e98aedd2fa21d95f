package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// staleCancelReason is recorded on assignments cancelled by the sweep.
const staleCancelReason = "not accepted in time"

// ReleaseStaleAssignmentsCommandHandler cancels assignments that sat in
// Assigned past the acceptance window and returns their couriers to
// Available. Each assignment is processed in its own transaction so one
// bad row does not block the sweep.
type ReleaseStaleAssignmentsCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
}

// NewReleaseStaleAssignmentsCommandHandler creates a handler for the stale sweep.
func NewReleaseStaleAssignmentsCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
) ReleaseStaleAssignmentsCommandHandler {
	return ReleaseStaleAssignmentsCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the sweep command. Returns the first error encountered
// after finishing the scan; assignments after a failed one are still swept.
func (h ReleaseStaleAssignmentsCommandHandler) Handle(
	ctx context.Context,
	cmd ReleaseStaleAssignmentsCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-cmd.MaxAge())

	stale, err := h.uowFactory.Create().AssignmentRepository().GetStaleAssigned(ctx, cutoff)
	if err != nil {
		return err
	}

	var firstErr error
	for _, candidate := range stale {
		if err := h.cancelOne(ctx, candidate.ID()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// cancelOne cancels a single stale assignment and releases its courier
// within one transaction. The row is re-read under lock so an acceptance
// racing the sweep wins and the candidate is skipped.
func (h ReleaseStaleAssignmentsCommandHandler) cancelOne(
	ctx context.Context,
	assignmentID kernel.UUID,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignmentRepo := uow.AssignmentRepository()

	aggregate, err := assignmentRepo.GetForUpdate(ctx, assignmentID)
	if err != nil {
		return err
	}

	// Accepted while the sweep was running
	if aggregate.Status() != assignment.Assigned {
		return nil
	}

	now := time.Now().UTC()
	if err = aggregate.Cancel(staleCancelReason, now); err != nil {
		return err
	}

	if err = assignmentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	courierRepo := uow.CourierRepository()
	courierEntity, err := courierRepo.Get(ctx, aggregate.CourierID())
	if err != nil {
		return err
	}

	if err = courierEntity.FinishDelivery(); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, courierEntity); err != nil {
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
