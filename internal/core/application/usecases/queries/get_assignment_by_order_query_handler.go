package queries

import (
	"context"

	"gorm.io/gorm"

	"dispatch/internal/pkg/errs"
)

// GetAssignmentByOrderQueryHandler retrieves a single assignment by order ID.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetAssignmentByOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetAssignmentByOrderQueryHandler creates a handler for order assignment lookups.
// Requires a GORM database connection for query execution.
func NewGetAssignmentByOrderQueryHandler(db *gorm.DB) GetAssignmentByOrderQueryHandler {
	return GetAssignmentByOrderQueryHandler{db: db}
}

// Handle executes the lookup.
// Returns errs.ObjectNotFoundError when the order has no assignment.
func (h GetAssignmentByOrderQueryHandler) Handle(
	ctx context.Context,
	query GetAssignmentByOrderQuery,
) (AssignmentResponse, error) {
	if err := query.Validate(); err != nil {
		return AssignmentResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+assignmentColumns+`
		FROM assignments
		WHERE order_id = ?
	`, query.OrderID().String()).Rows()
	if err != nil {
		return AssignmentResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return AssignmentResponse{}, err
		}
		return AssignmentResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID().String())
	}

	response, err := scanAssignmentRow(rows)
	if err != nil {
		return AssignmentResponse{}, err
	}

	return response, rows.Err()
}
