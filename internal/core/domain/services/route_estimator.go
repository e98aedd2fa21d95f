package services

import (
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// RouteEstimator is a domain service that produces the distance and duration
// estimates attached to a new assignment. Estimates are deterministic
// functions of the two coordinate pairs: identical inputs always yield
// identical results.
type RouteEstimator struct {
	avgSpeedKmh float64
}

// NewRouteEstimator creates a RouteEstimator assuming a constant average
// courier speed in km/h. Speed must be positive.
func NewRouteEstimator(avgSpeedKmh float64) (RouteEstimator, error) {
	if avgSpeedKmh <= 0 {
		return RouteEstimator{}, errs.NewValueIsRequiredError("average speed")
	}
	return RouteEstimator{avgSpeedKmh: avgSpeedKmh}, nil
}

// EstimateDistanceKm returns the great-circle distance between two points,
// rounded to 2 decimal places.
func (e RouteEstimator) EstimateDistanceKm(from, to kernel.GeoPoint) (float64, error) {
	distance, err := from.DistanceKm(to)
	if err != nil {
		return 0, err
	}
	return math.Round(distance*100) / 100, nil
}

// EstimateDurationMin converts a distance estimate into travel time at the
// configured average speed, rounded up to the next whole minute.
func (e RouteEstimator) EstimateDurationMin(distanceKm float64) int {
	return int(math.Ceil(distanceKm / e.avgSpeedKmh * 60))
}
