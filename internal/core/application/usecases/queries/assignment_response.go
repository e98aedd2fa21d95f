// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentResponse is the read model for a delivery assignment.
// Coordinates are plain lat/lng pairs and the status is its string form,
// ready for serialization without touching the domain aggregate.
type AssignmentResponse struct {
	ID                   kernel.UUID
	OrderID              kernel.UUID
	CourierID            kernel.UUID
	RestaurantID         kernel.UUID
	CustomerID           kernel.UUID
	Status               string
	PickupAddress        string
	PickupLat            float64
	PickupLng            float64
	DeliveryAddress      string
	DeliveryLat          float64
	DeliveryLng          float64
	CurrentLat           *float64
	CurrentLng           *float64
	EstimatedDistanceKm  float64
	EstimatedDurationMin int
	DeliveryFee          float64
	Tip                  float64
	Instructions         string
	CancelReason         string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	AcceptedAt           *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
}

// assignmentColumns is the shared select list for assignment read queries.
// Must stay in sync with scanAssignmentRow.
const assignmentColumns = `
	id,
	order_id,
	courier_id,
	restaurant_id,
	customer_id,
	status,
	pickup_address,
	pickup_lat,
	pickup_lng,
	delivery_address,
	delivery_lat,
	delivery_lng,
	current_lat,
	current_lng,
	estimated_distance_km,
	estimated_duration_min,
	delivery_fee,
	tip,
	instructions,
	cancel_reason,
	created_at,
	updated_at,
	accepted_at,
	picked_up_at,
	delivered_at,
	cancelled_at`

// scanAssignmentRow reads one row produced with assignmentColumns into the
// read model, converting database types to domain types.
func scanAssignmentRow(rows *sql.Rows) (AssignmentResponse, error) {
	var (
		response     AssignmentResponse
		id           uuid.UUID
		orderID      uuid.UUID
		courierID    uuid.UUID
		restaurantID uuid.UUID
		customerID   uuid.UUID
		status       int
	)

	err := rows.Scan(
		&id,
		&orderID,
		&courierID,
		&restaurantID,
		&customerID,
		&status,
		&response.PickupAddress,
		&response.PickupLat,
		&response.PickupLng,
		&response.DeliveryAddress,
		&response.DeliveryLat,
		&response.DeliveryLng,
		&response.CurrentLat,
		&response.CurrentLng,
		&response.EstimatedDistanceKm,
		&response.EstimatedDurationMin,
		&response.DeliveryFee,
		&response.Tip,
		&response.Instructions,
		&response.CancelReason,
		&response.CreatedAt,
		&response.UpdatedAt,
		&response.AcceptedAt,
		&response.PickedUpAt,
		&response.DeliveredAt,
		&response.CancelledAt,
	)
	if err != nil {
		return AssignmentResponse{}, err
	}

	for target, raw := range map[*kernel.UUID]uuid.UUID{
		&response.ID:           id,
		&response.OrderID:      orderID,
		&response.CourierID:    courierID,
		&response.RestaurantID: restaurantID,
		&response.CustomerID:   customerID,
	} {
		converted, convErr := kernel.UUIDFromBytes(raw[:])
		if convErr != nil {
			return AssignmentResponse{}, convErr
		}
		*target = converted
	}

	response.Status = assignment.Status(status).String()
	return response, nil
}
