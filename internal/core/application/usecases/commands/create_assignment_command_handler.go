package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ErrOrderAlreadyAssigned is returned when the order already has an assignment.
var ErrOrderAlreadyAssigned = errors.New("order already has an assignment")

// CreateAssignmentCommandHandler orchestrates the dispatch of an order:
// uniqueness check, enrichment, courier matching, estimation, persistence,
// and the post-commit notification.
//
// Example:
//
//	handler := NewCreateAssignmentCommandHandler(uowFactory, resolver, matcher, estimator, notifier, 15)
//	created, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrOrderAlreadyAssigned):
//	    log.Println("Order is already being delivered")
//	case errors.Is(err, services.ErrNoCourierAvailable):
//	    log.Println("No available partners")
//	case err != nil:
//	    log.Printf("Dispatch failed: %v", err)
//	default:
//	    log.Printf("Dispatched to courier %s", created.CourierID())
//	}
type CreateAssignmentCommandHandler struct {
	uowFactory UoWFactory
	resolver   EnrichmentResolver
	matcher    services.CourierMatcher
	estimator  services.RouteEstimator
	notifier   ports.Notifier
	radiusKm   float64
}

// NewCreateAssignmentCommandHandler creates a handler for order dispatch.
// radiusKm bounds the courier search around the pickup point.
func NewCreateAssignmentCommandHandler(
	uowFactory UoWFactory,
	resolver EnrichmentResolver,
	matcher services.CourierMatcher,
	estimator services.RouteEstimator,
	notifier ports.Notifier,
	radiusKm float64,
) CreateAssignmentCommandHandler {
	return CreateAssignmentCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		matcher:    matcher,
		estimator:  estimator,
		notifier:   notifier,
		radiusKm:   radiusKm,
	}
}

// Handle processes the dispatch command and returns the created assignment.
//
// The uniqueness check, enrichment, matching, assignment insert, and courier
// state flip all run inside one transaction; a concurrent dispatch for the
// same order loses on the order ID unique constraint and surfaces as
// ErrOrderAlreadyAssigned. The notification is emitted only after a
// successful commit and never affects the result.
func (h CreateAssignmentCommandHandler) Handle(
	ctx context.Context,
	cmd CreateAssignmentCommand,
) (*assignment.Assignment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignmentRepo := uow.AssignmentRepository()
	courierRepo := uow.CourierRepository()

	_, err := assignmentRepo.GetByOrderID(ctx, cmd.OrderID())
	if err == nil {
		return nil, ErrOrderAlreadyAssigned
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	details, err := h.resolver.Resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}

	couriers, err := courierRepo.GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}

	matched, err := h.matcher.Match(details.PickupLocation, couriers, h.radiusKm)
	if err != nil {
		return nil, err
	}

	distanceKm, err := h.estimator.EstimateDistanceKm(details.PickupLocation, details.DeliveryLocation)
	if err != nil {
		return nil, err
	}

	created, err := assignment.NewAssignment(
		cmd.AssignmentID(),
		cmd.OrderID(),
		matched.ID(),
		assignment.Details{
			RestaurantID:         details.RestaurantID,
			CustomerID:           details.CustomerID,
			PickupAddress:        details.PickupAddress,
			PickupLocation:       details.PickupLocation,
			DeliveryAddress:      details.DeliveryAddress,
			DeliveryLocation:     details.DeliveryLocation,
			EstimatedDistanceKm:  distanceKm,
			EstimatedDurationMin: h.estimator.EstimateDurationMin(distanceKm),
			DeliveryFee:          details.DeliveryFee,
			Tip:                  details.Tip,
			Instructions:         details.Instructions,
		},
		matched.Location(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = matched.StartDelivery(); err != nil {
		return nil, err
	}

	if err = assignmentRepo.Add(ctx, created); err != nil {
		if errors.Is(err, errs.ErrObjectAlreadyExists) {
			return nil, ErrOrderAlreadyAssigned
		}
		return nil, err
	}

	if err = courierRepo.Update(ctx, matched); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ports.DispatchEvent{
		AssignmentID: created.ID(),
		OrderID:      created.OrderID(),
		CourierID:    created.CourierID(),
		Status:       created.Status().String(),
		OccurredAt:   created.CreatedAt(),
	})

	return created, nil
}
