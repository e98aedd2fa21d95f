// Package foreign provides read-only adapters over tables owned by the
// order and restaurant services. Dispatch never writes to these tables;
// it only pulls the narrow snapshots needed to enrich a new assignment.
package foreign

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderRow maps the subset of the orders table consumed by enrichment.
type orderRow struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID    uuid.UUID `gorm:"type:uuid"`
	CustomerID      uuid.UUID `gorm:"type:uuid"`
	DeliveryAddress string
	DeliveryLat     *float64
	DeliveryLng     *float64
	TotalAmount     float64
}

func (orderRow) TableName() string {
	return "orders"
}

// restaurantRow maps the subset of the restaurants table consumed by enrichment.
type restaurantRow struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Address string
	Lat     *float64
	Lng     *float64
}

func (restaurantRow) TableName() string {
	return "restaurants"
}

// GormOrderReader reads order snapshots from the order service's table.
type GormOrderReader struct {
	db *gorm.DB
}

// NewGormOrderReader creates a read-only adapter over the orders table.
func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

// GetOrder retrieves the snapshot for the given order.
func (r *GormOrderReader) GetOrder(ctx context.Context, orderID kernel.UUID) (ports.OrderSnapshot, error) {
	if err := orderID.Validate(); err != nil {
		return ports.OrderSnapshot{}, err
	}

	var row orderRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.OrderSnapshot{}, errs.NewObjectNotFoundError("orderID", orderID)
		}
		return ports.OrderSnapshot{}, err
	}

	snapshot := ports.OrderSnapshot{
		DeliveryAddress: row.DeliveryAddress,
		TotalAmount:     row.TotalAmount,
	}

	var convErr error
	if snapshot.OrderID, convErr = kernel.UUIDFromBytes(row.ID[:]); convErr != nil {
		return ports.OrderSnapshot{}, convErr
	}
	if snapshot.RestaurantID, convErr = kernel.UUIDFromBytes(row.RestaurantID[:]); convErr != nil {
		return ports.OrderSnapshot{}, convErr
	}
	if snapshot.CustomerID, convErr = kernel.UUIDFromBytes(row.CustomerID[:]); convErr != nil {
		return ports.OrderSnapshot{}, convErr
	}

	snapshot.DeliveryLocation, convErr = pointFromColumns(row.DeliveryLat, row.DeliveryLng)
	if convErr != nil {
		return ports.OrderSnapshot{}, convErr
	}
	return snapshot, nil
}

// GormRestaurantReader reads restaurant snapshots from the restaurant service's table.
type GormRestaurantReader struct {
	db *gorm.DB
}

// NewGormRestaurantReader creates a read-only adapter over the restaurants table.
func NewGormRestaurantReader(db *gorm.DB) *GormRestaurantReader {
	return &GormRestaurantReader{db: db}
}

// GetRestaurant retrieves the snapshot for the given restaurant.
func (r *GormRestaurantReader) GetRestaurant(
	ctx context.Context, restaurantID kernel.UUID,
) (ports.RestaurantSnapshot, error) {
	if err := restaurantID.Validate(); err != nil {
		return ports.RestaurantSnapshot{}, err
	}

	var row restaurantRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", restaurantID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RestaurantSnapshot{}, errs.NewObjectNotFoundError("restaurantID", restaurantID)
		}
		return ports.RestaurantSnapshot{}, err
	}

	snapshot := ports.RestaurantSnapshot{Address: row.Address}

	var convErr error
	if snapshot.RestaurantID, convErr = kernel.UUIDFromBytes(row.ID[:]); convErr != nil {
		return ports.RestaurantSnapshot{}, convErr
	}
	snapshot.Location, convErr = pointFromColumns(row.Lat, row.Lng)
	if convErr != nil {
		return ports.RestaurantSnapshot{}, convErr
	}
	return snapshot, nil
}

// pointFromColumns converts a nullable coordinate pair into a GeoPoint.
// Both columns must be present for a point to exist.
func pointFromColumns(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
