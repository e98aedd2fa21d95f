package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DispatchDetails is a fully resolved dispatch request: every field the
// assignment needs, with nothing left optional.
type DispatchDetails struct {
	RestaurantID     kernel.UUID
	CustomerID       kernel.UUID
	PickupAddress    string
	PickupLocation   kernel.GeoPoint
	DeliveryAddress  string
	DeliveryLocation kernel.GeoPoint
	DeliveryFee      float64
	Tip              float64
	Instructions     string
}

// EnrichmentResolver fills the gaps in a dispatch request by reading the
// foreign order and restaurant stores. Fields the caller supplied are kept
// as-is; only missing ones are resolved.
//
// Resolution rules:
//   - customer ID, delivery address/coordinates, and restaurant ID come
//     from the order record when absent
//   - pickup address/coordinates come from the restaurant record when
//     absent, keyed by the (possibly just-resolved) restaurant ID
//   - delivery fee falls back to the configured default; tip defaults to zero
type EnrichmentResolver struct {
	orderReader      ports.OrderReader
	restaurantReader ports.RestaurantReader
	defaultFee       float64
}

// NewEnrichmentResolver creates an EnrichmentResolver backed by the given
// read ports. defaultFee is used when a request carries no delivery fee.
func NewEnrichmentResolver(
	orderReader ports.OrderReader,
	restaurantReader ports.RestaurantReader,
	defaultFee float64,
) EnrichmentResolver {
	return EnrichmentResolver{
		orderReader:      orderReader,
		restaurantReader: restaurantReader,
		defaultFee:       defaultFee,
	}
}

// Resolve turns a dispatch command into complete DispatchDetails.
// The foreign stores are only consulted for fields the request left out.
func (r EnrichmentResolver) Resolve(
	ctx context.Context,
	cmd CreateAssignmentCommand,
) (DispatchDetails, error) {
	opts := cmd.Options()

	details := DispatchDetails{
		PickupAddress:   opts.PickupAddress,
		DeliveryAddress: opts.DeliveryAddress,
		DeliveryFee:     r.defaultFee,
		Instructions:    opts.Instructions,
	}
	if opts.RestaurantID != nil {
		details.RestaurantID = *opts.RestaurantID
	}
	if opts.CustomerID != nil {
		details.CustomerID = *opts.CustomerID
	}
	if opts.PickupLocation != nil {
		details.PickupLocation = *opts.PickupLocation
	}
	if opts.DeliveryLocation != nil {
		details.DeliveryLocation = *opts.DeliveryLocation
	}
	if opts.DeliveryFee != nil {
		details.DeliveryFee = *opts.DeliveryFee
	}
	if opts.Tip != nil {
		details.Tip = *opts.Tip
	}

	needsOrder := opts.CustomerID == nil ||
		opts.RestaurantID == nil ||
		opts.DeliveryAddress == "" ||
		opts.DeliveryLocation == nil
	if needsOrder {
		snapshot, err := r.orderReader.GetOrder(ctx, cmd.OrderID())
		if err != nil {
			return DispatchDetails{}, err
		}

		if opts.CustomerID == nil {
			details.CustomerID = snapshot.CustomerID
		}
		if opts.RestaurantID == nil {
			details.RestaurantID = snapshot.RestaurantID
		}
		if opts.DeliveryAddress == "" {
			details.DeliveryAddress = snapshot.DeliveryAddress
		}
		if opts.DeliveryLocation == nil {
			if snapshot.DeliveryLocation == nil {
				return DispatchDetails{}, errs.NewValueIsRequiredError("delivery coordinates")
			}
			details.DeliveryLocation = *snapshot.DeliveryLocation
		}
	}

	needsRestaurant := opts.PickupAddress == "" || opts.PickupLocation == nil
	if needsRestaurant {
		snapshot, err := r.restaurantReader.GetRestaurant(ctx, details.RestaurantID)
		if err != nil {
			return DispatchDetails{}, err
		}

		if opts.PickupAddress == "" {
			details.PickupAddress = snapshot.Address
		}
		if opts.PickupLocation == nil {
			if snapshot.Location == nil {
				return DispatchDetails{}, errs.NewValueIsRequiredError("pickup coordinates")
			}
			details.PickupLocation = *snapshot.Location
		}
	}

	return details, nil
}
