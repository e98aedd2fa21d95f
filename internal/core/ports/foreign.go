package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// OrderSnapshot is the narrow view of a foreign order record that dispatch
// needs for enrichment. The core knows nothing about the order store's
// layout beyond this contract.
type OrderSnapshot struct {
	OrderID          kernel.UUID
	RestaurantID     kernel.UUID
	CustomerID       kernel.UUID
	DeliveryAddress  string
	DeliveryLocation *kernel.GeoPoint
	TotalAmount      float64
}

// RestaurantSnapshot is the narrow view of a foreign restaurant record used
// to resolve pickup details.
type RestaurantSnapshot struct {
	RestaurantID kernel.UUID
	Address      string
	Location     *kernel.GeoPoint
}

// OrderReader reads order snapshots from the foreign order store.
type OrderReader interface {
	// GetOrder retrieves the snapshot for the given order.
	// Returns errs.ObjectNotFoundError when the order does not exist.
	GetOrder(ctx context.Context, orderID kernel.UUID) (OrderSnapshot, error)
}

// RestaurantReader reads restaurant snapshots from the foreign restaurant store.
type RestaurantReader interface {
	// GetRestaurant retrieves the snapshot for the given restaurant.
	// Returns errs.ObjectNotFoundError when the restaurant does not exist.
	GetRestaurant(ctx context.Context, restaurantID kernel.UUID) (RestaurantSnapshot, error)
}
