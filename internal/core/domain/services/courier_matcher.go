package services

import (
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrNoCourierAvailable is returned when no suitable courier can be matched
// to a pickup point. This occurs when no courier is Available, none has a
// known position, or every candidate lies outside the matching radius.
var ErrNoCourierAvailable = errors.New("no available couriers within matching radius")

// CourierMatcher is a domain service that selects the courier closest to a
// pickup point among all Available couriers within a maximum radius.
//
// Selection rules:
//   - Only Available couriers are considered
//   - Couriers with an unknown position are skipped
//   - Distance is the great-circle (haversine) distance to the pickup point
//   - The nearest courier wins; ties resolve to the lowest courier ID so
//     matching stays deterministic
//   - A nearest courier beyond the radius is still a failed match
//
// The scan is linear over the candidate slice, which is adequate at the fleet
// sizes this service targets. A spatial index can replace the scan behind the
// same contract if fleets outgrow it.
type CourierMatcher struct{}

// NewCourierMatcher creates a new CourierMatcher instance.
func NewCourierMatcher() CourierMatcher {
	return CourierMatcher{}
}

// Match returns the nearest Available courier within radiusKm of pickup.
//
// Returns:
//   - *courier.Courier: The matched courier
//   - error: ErrNoCourierAvailable when no candidate qualifies, or a
//     validation error for bad inputs
func (m CourierMatcher) Match(
	pickup kernel.GeoPoint,
	couriers []*courier.Courier,
	radiusKm float64,
) (*courier.Courier, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		return nil, errs.NewValueIsInvalidError("matching radius")
	}

	var (
		bestCourier  *courier.Courier
		bestDistance float64
	)

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if c.Availability() != courier.Available || c.Location() == nil {
			continue
		}

		distance, err := pickup.DistanceKm(*c.Location())
		if err != nil {
			return nil, err
		}

		if bestCourier == nil || distance < bestDistance ||
			(distance == bestDistance && c.ID().String() < bestCourier.ID().String()) {
			bestCourier = c
			bestDistance = distance
		}
	}

	if bestCourier == nil || bestDistance > radiusKm {
		return nil, ErrNoCourierAvailable
	}

	return bestCourier, nil
}
