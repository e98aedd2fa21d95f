// Package assignmentrepo provides data transfer objects and mapping functions for assignment persistence.
// This package implements the repository pattern for the assignment domain aggregate, handling
// the conversion between domain entities and database representations.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignment aggregates.
// The order ID carries a unique index: the database is the final arbiter of the
// one-assignment-per-order invariant under concurrent dispatches.
type AssignmentDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CourierID            uuid.UUID `gorm:"type:uuid;not null;index"`
	RestaurantID         uuid.UUID `gorm:"type:uuid;not null"`
	CustomerID           uuid.UUID `gorm:"type:uuid;not null"`
	Status               int       `gorm:"type:int;not null;index"`
	PickupAddress        string    `gorm:"type:text;not null"`
	PickupLat            float64   `gorm:"type:double precision;not null"`
	PickupLng            float64   `gorm:"type:double precision;not null"`
	DeliveryAddress      string    `gorm:"type:text;not null"`
	DeliveryLat          float64   `gorm:"type:double precision;not null"`
	DeliveryLng          float64   `gorm:"type:double precision;not null"`
	CurrentLat           *float64  `gorm:"type:double precision"`
	CurrentLng           *float64  `gorm:"type:double precision"`
	EstimatedDistanceKm  float64   `gorm:"type:double precision;not null"`
	EstimatedDurationMin int       `gorm:"type:int;not null"`
	DeliveryFee          float64   `gorm:"type:double precision;not null"`
	Tip                  float64   `gorm:"type:double precision;not null"`
	Instructions         string    `gorm:"type:text"`
	CancelReason         string    `gorm:"type:text"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
	AcceptedAt           *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
}

// TableName specifies the database table name for assignment entities.
// Overrides GORM's default naming convention to use "assignments".
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment domain aggregate to its database representation.
func fromDomain(aggregate *assignment.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:                   aggregate.ID().Bytes(),
		OrderID:              aggregate.OrderID().Bytes(),
		CourierID:            aggregate.CourierID().Bytes(),
		RestaurantID:         aggregate.RestaurantID().Bytes(),
		CustomerID:           aggregate.CustomerID().Bytes(),
		Status:               int(aggregate.Status()),
		PickupAddress:        aggregate.PickupAddress(),
		PickupLat:            aggregate.PickupLocation().Lat(),
		PickupLng:            aggregate.PickupLocation().Lng(),
		DeliveryAddress:      aggregate.DeliveryAddress(),
		DeliveryLat:          aggregate.DeliveryLocation().Lat(),
		DeliveryLng:          aggregate.DeliveryLocation().Lng(),
		EstimatedDistanceKm:  aggregate.EstimatedDistanceKm(),
		EstimatedDurationMin: aggregate.EstimatedDurationMin(),
		DeliveryFee:          aggregate.DeliveryFee(),
		Tip:                  aggregate.Tip(),
		Instructions:         aggregate.Instructions(),
		CancelReason:         aggregate.CancelReason(),
		CreatedAt:            aggregate.CreatedAt(),
		UpdatedAt:            aggregate.UpdatedAt(),
		AcceptedAt:           aggregate.AcceptedAt(),
		PickedUpAt:           aggregate.PickedUpAt(),
		DeliveredAt:          aggregate.DeliveredAt(),
		CancelledAt:          aggregate.CancelledAt(),
	}

	if current := aggregate.CurrentLocation(); current != nil {
		lat, lng := current.Lat(), current.Lng()
		dto.CurrentLat, dto.CurrentLng = &lat, &lng
	}

	return dto
}

// toDomain converts a database DTO to an assignment domain aggregate
// using RestoreAssignment.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLng)
	if err != nil {
		return nil, err
	}

	var current *kernel.GeoPoint
	if dto.CurrentLat != nil && dto.CurrentLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.CurrentLat, *dto.CurrentLng)
		if pointErr != nil {
			return nil, pointErr
		}
		current = &point
	}

	return assignment.RestoreAssignment(
		id,
		orderID,
		courierID,
		assignment.Details{
			RestaurantID:         restaurantID,
			CustomerID:           customerID,
			PickupAddress:        dto.PickupAddress,
			PickupLocation:       pickup,
			DeliveryAddress:      dto.DeliveryAddress,
			DeliveryLocation:     delivery,
			EstimatedDistanceKm:  dto.EstimatedDistanceKm,
			EstimatedDurationMin: dto.EstimatedDurationMin,
			DeliveryFee:          dto.DeliveryFee,
			Tip:                  dto.Tip,
			Instructions:         dto.Instructions,
		},
		current,
		assignment.RestoredState{
			Status:       assignment.Status(dto.Status),
			CancelReason: dto.CancelReason,
			CreatedAt:    dto.CreatedAt,
			UpdatedAt:    dto.UpdatedAt,
			AcceptedAt:   dto.AcceptedAt,
			PickedUpAt:   dto.PickedUpAt,
			DeliveredAt:  dto.DeliveredAt,
			CancelledAt:  dto.CancelledAt,
		},
	)
}
