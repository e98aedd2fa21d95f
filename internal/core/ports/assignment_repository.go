package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for assignment
// aggregates.
type AssignmentRepository interface {
	// Add persists a new assignment aggregate to storage.
	// Returns ErrOrderAlreadyAssigned-compatible conflict errors from the
	// adapter when an assignment for the same order already exists.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing assignment aggregate.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// Get retrieves an assignment aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetForUpdate retrieves an assignment by its identifier and locks the
	// row for the duration of the current transaction, serializing
	// concurrent lifecycle updates on the same assignment.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetByOrderID retrieves the assignment created for the given order.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*assignment.Assignment, error)

	// GetActiveByCourier retrieves the courier's assignments that are still
	// in flight, newest first.
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*assignment.Assignment, error)

	// GetAllByCourier retrieves every assignment ever dispatched to the
	// courier, newest first.
	GetAllByCourier(ctx context.Context, courierID kernel.UUID) ([]*assignment.Assignment, error)

	// GetStaleAssigned retrieves assignments stuck in the Assigned status
	// that were created before the cutoff. Used by the sweep job to cancel
	// dispatches the courier never acknowledged.
	GetStaleAssigned(ctx context.Context, cutoff time.Time) ([]*assignment.Assignment, error)
}
