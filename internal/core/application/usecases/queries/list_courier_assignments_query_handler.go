package queries

import (
	"context"

	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/assignment"
)

// ListCourierAssignmentsQueryHandler retrieves a courier's assignment history.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type ListCourierAssignmentsQueryHandler struct {
	db *gorm.DB
}

// NewListCourierAssignmentsQueryHandler creates a handler for courier assignment listings.
// Requires a GORM database connection for query execution.
func NewListCourierAssignmentsQueryHandler(db *gorm.DB) ListCourierAssignmentsQueryHandler {
	return ListCourierAssignmentsQueryHandler{db: db}
}

// Handle executes the listing, newest assignments first.
// An unknown courier yields an empty slice, not an error.
func (h ListCourierAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query ListCourierAssignmentsQuery,
) ([]AssignmentResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE courier_id = ?
	`
	args := []any{query.CourierID().String()}

	if query.ActiveOnly() {
		sql += ` AND status NOT IN (?, ?, ?)`
		args = append(args,
			int(assignment.Delivered),
			int(assignment.Cancelled),
			int(assignment.Failed),
		)
	}
	sql += ` ORDER BY created_at DESC`

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]AssignmentResponse, 0)
	for rows.Next() {
		response, scanErr := scanAssignmentRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		responses = append(responses, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
