// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The user ID carries a unique index so each user owns at most one courier profile.
// Position columns are nullable: a freshly onboarded courier has no known location.
type CourierDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Phone        string    `gorm:"type:varchar(32);not null"`
	Vehicle      string    `gorm:"type:varchar(255)"`
	Availability int       `gorm:"type:int;not null;index"`
	Lat          *float64  `gorm:"type:double precision"`
	Lng          *float64  `gorm:"type:double precision"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:           aggregate.ID().Bytes(),
		UserID:       aggregate.UserID().Bytes(),
		Name:         aggregate.Name(),
		Phone:        aggregate.Phone(),
		Vehicle:      aggregate.Vehicle(),
		Availability: int(aggregate.Availability()),
	}

	if location := aggregate.Location(); location != nil {
		lat, lng := location.Lat(), location.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}

	return dto
}

// toDomain converts a database DTO to a courier domain aggregate
// using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return courier.RestoreCourier(
		id,
		userID,
		dto.Name,
		dto.Phone,
		dto.Vehicle,
		courier.Availability(dto.Availability),
		location,
	)
}
