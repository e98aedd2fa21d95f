package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
)

// ErrorResponse is the uniform error body returned by all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateCourierRequest onboards a new delivery partner.
type CreateCourierRequest struct {
	UserID  string `json:"userId" validate:"required,uuid"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Vehicle string `json:"vehicle"`
}

// CreateAssignmentRequest dispatches an order to a courier. Only the order
// ID is mandatory; omitted fields are resolved from the order and
// restaurant records.
type CreateAssignmentRequest struct {
	OrderID         string   `json:"orderId" validate:"required,uuid"`
	RestaurantID    *string  `json:"restaurantId" validate:"omitempty,uuid"`
	CustomerID      *string  `json:"customerId" validate:"omitempty,uuid"`
	PickupAddress   string   `json:"pickupAddress"`
	PickupLat       *float64 `json:"pickupLat" validate:"omitempty,latitude"`
	PickupLng       *float64 `json:"pickupLng" validate:"omitempty,longitude"`
	DeliveryAddress string   `json:"deliveryAddress"`
	DeliveryLat     *float64 `json:"deliveryLat" validate:"omitempty,latitude"`
	DeliveryLng     *float64 `json:"deliveryLng" validate:"omitempty,longitude"`
	DeliveryFee     *float64 `json:"deliveryFee" validate:"omitempty,gte=0"`
	Tip             *float64 `json:"tip" validate:"omitempty,gte=0"`
	Instructions    string   `json:"instructions"`
}

// AcceptAssignmentRequest identifies the courier acknowledging a dispatch.
type AcceptAssignmentRequest struct {
	CourierID string `json:"courierId" validate:"required,uuid"`
}

// UpdateStatusRequest moves an assignment through its delivery lifecycle.
type UpdateStatusRequest struct {
	CourierID string `json:"courierId" validate:"required,uuid"`
	Status    string `json:"status" validate:"required"`
	Reason    string `json:"reason"`
}

// UpdateLocationRequest is a courier location ping.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// AssignmentResponse is the wire representation of an assignment.
type AssignmentResponse struct {
	ID                   string     `json:"id"`
	OrderID              string     `json:"orderId"`
	CourierID            string     `json:"courierId"`
	RestaurantID         string     `json:"restaurantId"`
	CustomerID           string     `json:"customerId"`
	Status               string     `json:"status"`
	PickupAddress        string     `json:"pickupAddress"`
	PickupLat            float64    `json:"pickupLat"`
	PickupLng            float64    `json:"pickupLng"`
	DeliveryAddress      string     `json:"deliveryAddress"`
	DeliveryLat          float64    `json:"deliveryLat"`
	DeliveryLng          float64    `json:"deliveryLng"`
	CurrentLat           *float64   `json:"currentLat,omitempty"`
	CurrentLng           *float64   `json:"currentLng,omitempty"`
	EstimatedDistanceKm  float64    `json:"estimatedDistanceKm"`
	EstimatedDurationMin int        `json:"estimatedDurationMin"`
	DeliveryFee          float64    `json:"deliveryFee"`
	Tip                  float64    `json:"tip"`
	Instructions         string     `json:"instructions,omitempty"`
	CancelReason         string     `json:"cancelReason,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
	AcceptedAt           *time.Time `json:"acceptedAt,omitempty"`
	PickedUpAt           *time.Time `json:"pickedUpAt,omitempty"`
	DeliveredAt          *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt          *time.Time `json:"cancelledAt,omitempty"`
}

// assignmentResponseFromReadModel converts the query read model to the wire form.
func assignmentResponseFromReadModel(m queries.AssignmentResponse) AssignmentResponse {
	return AssignmentResponse{
		ID:                   m.ID.String(),
		OrderID:              m.OrderID.String(),
		CourierID:            m.CourierID.String(),
		RestaurantID:         m.RestaurantID.String(),
		CustomerID:           m.CustomerID.String(),
		Status:               m.Status,
		PickupAddress:        m.PickupAddress,
		PickupLat:            m.PickupLat,
		PickupLng:            m.PickupLng,
		DeliveryAddress:      m.DeliveryAddress,
		DeliveryLat:          m.DeliveryLat,
		DeliveryLng:          m.DeliveryLng,
		CurrentLat:           m.CurrentLat,
		CurrentLng:           m.CurrentLng,
		EstimatedDistanceKm:  m.EstimatedDistanceKm,
		EstimatedDurationMin: m.EstimatedDurationMin,
		DeliveryFee:          m.DeliveryFee,
		Tip:                  m.Tip,
		Instructions:         m.Instructions,
		CancelReason:         m.CancelReason,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
		AcceptedAt:           m.AcceptedAt,
		PickedUpAt:           m.PickedUpAt,
		DeliveredAt:          m.DeliveredAt,
		CancelledAt:          m.CancelledAt,
	}
}

// assignmentResponseFromAggregate converts a freshly created aggregate to the
// wire form, used by the create endpoint before any read model exists.
func assignmentResponseFromAggregate(a *assignment.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:                   a.ID().String(),
		OrderID:              a.OrderID().String(),
		CourierID:            a.CourierID().String(),
		RestaurantID:         a.RestaurantID().String(),
		CustomerID:           a.CustomerID().String(),
		Status:               a.Status().String(),
		PickupAddress:        a.PickupAddress(),
		PickupLat:            a.PickupLocation().Lat(),
		PickupLng:            a.PickupLocation().Lng(),
		DeliveryAddress:      a.DeliveryAddress(),
		DeliveryLat:          a.DeliveryLocation().Lat(),
		DeliveryLng:          a.DeliveryLocation().Lng(),
		EstimatedDistanceKm:  a.EstimatedDistanceKm(),
		EstimatedDurationMin: a.EstimatedDurationMin(),
		DeliveryFee:          a.DeliveryFee(),
		Tip:                  a.Tip(),
		Instructions:         a.Instructions(),
		CancelReason:         a.CancelReason(),
		CreatedAt:            a.CreatedAt(),
		UpdatedAt:            a.UpdatedAt(),
		AcceptedAt:           a.AcceptedAt(),
		PickedUpAt:           a.PickedUpAt(),
		DeliveredAt:          a.DeliveredAt(),
		CancelledAt:          a.CancelledAt(),
	}

	if current := a.CurrentLocation(); current != nil {
		lat, lng := current.Lat(), current.Lng()
		response.CurrentLat = &lat
		response.CurrentLng = &lng
	}
	return response
}
