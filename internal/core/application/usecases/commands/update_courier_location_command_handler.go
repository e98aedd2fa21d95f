package commands

import (
	"context"
	"time"
)

// UpdateCourierLocationCommandHandler records a courier position ping and
// fans the new coordinate out to every assignment currently in flight for
// that courier.
type UpdateCourierLocationCommandHandler struct {
	uowFactory UoWFactory
}

// NewUpdateCourierLocationCommandHandler creates a handler for location pings.
func NewUpdateCourierLocationCommandHandler(uowFactory UoWFactory) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the location ping.
//
// The courier update and the assignment fan-out run in one transaction per
// ping. A courier with no active assignments still gets its position
// updated. Returns errs.ObjectNotFoundError for an unknown courier.
func (h UpdateCourierLocationCommandHandler) Handle(ctx context.Context, cmd UpdateCourierLocationCommand) error {
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

	courierRepo := uow.CourierRepository()
	assignmentRepo := uow.AssignmentRepository()

	courierEntity, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = courierEntity.UpdateLocation(cmd.Location()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, courierEntity); err != nil {
		return err
	}

	active, err := assignmentRepo.GetActiveByCourier(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, aggregate := range active {
		if err = aggregate.UpdateCurrentLocation(cmd.Location(), now); err != nil {
			return err
		}
		if err = assignmentRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
