package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrListCourierAssignmentsQueryIsNotConstructed = errors.New(
	"ListCourierAssignmentsQuery must be created via NewListCourierAssignmentsQuery constructor",
)

// ListCourierAssignmentsQuery retrieves a courier's assignments, newest
// first. With activeOnly set, terminal assignments (Delivered, Cancelled,
// Failed) are filtered out.
type ListCourierAssignmentsQuery struct {
	courierID  kernel.UUID
	activeOnly bool

	guard guard.ConstructorGuard
}

// NewListCourierAssignmentsQuery creates a query for the courier's assignments.
func NewListCourierAssignmentsQuery(courierID kernel.UUID, activeOnly bool) (ListCourierAssignmentsQuery, error) {
	if err := courierID.Validate(); err != nil {
		return ListCourierAssignmentsQuery{}, err
	}

	return ListCourierAssignmentsQuery{
		courierID:  courierID,
		activeOnly: activeOnly,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrListCourierAssignmentsQueryIsNotConstructed if validation fails.
func (q ListCourierAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrListCourierAssignmentsQueryIsNotConstructed)
}

// CourierID returns the courier ID from the query.
func (q ListCourierAssignmentsQuery) CourierID() kernel.UUID {
	return q.courierID
}

// ActiveOnly reports whether terminal assignments should be excluded.
func (q ListCourierAssignmentsQuery) ActiveOnly() bool {
	return q.activeOnly
}
