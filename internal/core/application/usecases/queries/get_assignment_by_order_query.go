package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAssignmentByOrderQueryIsNotConstructed = errors.New(
	"GetAssignmentByOrderQuery must be created via NewGetAssignmentByOrderQuery constructor",
)

// GetAssignmentByOrderQuery retrieves the assignment dispatched for an order.
// An order has at most one assignment, so the result is a single record.
//
// Example:
//
//	query, err := NewGetAssignmentByOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	response, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // the order has no assignment yet
//	}
type GetAssignmentByOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAssignmentByOrderQuery creates a query for the given order's assignment.
func NewGetAssignmentByOrderQuery(orderID kernel.UUID) (GetAssignmentByOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetAssignmentByOrderQuery{}, err
	}

	return GetAssignmentByOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAssignmentByOrderQueryIsNotConstructed if validation fails.
func (q GetAssignmentByOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetAssignmentByOrderQueryIsNotConstructed)
}

// OrderID returns the order ID from the query.
func (q GetAssignmentByOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}
