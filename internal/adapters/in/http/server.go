// Package http exposes the dispatch use cases over a REST API.
// Request DTOs are validated structurally here; business rules stay in the
// domain, and domain errors are translated to HTTP status codes in one place.
package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createCourierHandler          commands.CreateCourierCommandHandler
	createAssignmentHandler       commands.CreateAssignmentCommandHandler
	acceptAssignmentHandler       commands.AcceptAssignmentCommandHandler
	updateAssignmentStatusHandler commands.UpdateAssignmentStatusCommandHandler
	updateCourierLocationHandler  commands.UpdateCourierLocationCommandHandler

	// Query handlers
	getAssignmentByOrderHandler   queries.GetAssignmentByOrderQueryHandler
	listCourierAssignmentsHandler queries.ListCourierAssignmentsQueryHandler

	validate *validator.Validate
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createCourierHandler commands.CreateCourierCommandHandler,
	createAssignmentHandler commands.CreateAssignmentCommandHandler,
	acceptAssignmentHandler commands.AcceptAssignmentCommandHandler,
	updateAssignmentStatusHandler commands.UpdateAssignmentStatusCommandHandler,
	updateCourierLocationHandler commands.UpdateCourierLocationCommandHandler,
	getAssignmentByOrderHandler queries.GetAssignmentByOrderQueryHandler,
	listCourierAssignmentsHandler queries.ListCourierAssignmentsQueryHandler,
) *Server {
	return &Server{
		createCourierHandler:          createCourierHandler,
		createAssignmentHandler:       createAssignmentHandler,
		acceptAssignmentHandler:       acceptAssignmentHandler,
		updateAssignmentStatusHandler: updateAssignmentStatusHandler,
		updateCourierLocationHandler:  updateCourierLocationHandler,
		getAssignmentByOrderHandler:   getAssignmentByOrderHandler,
		listCourierAssignmentsHandler: listCourierAssignmentsHandler,
		validate:                      validator.New(),
	}
}

// RegisterRoutes attaches all dispatch endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/couriers", s.CreateCourier)
	api.PUT("/couriers/:id/location", s.UpdateCourierLocation)
	api.GET("/couriers/:id/assignments", s.ListCourierAssignments)

	api.POST("/assignments", s.CreateAssignment)
	api.POST("/assignments/:id/accept", s.AcceptAssignment)
	api.PATCH("/assignments/:id/status", s.UpdateAssignmentStatus)

	api.GET("/orders/:orderId/assignment", s.GetAssignmentByOrder)

	e.GET("/health", s.Health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateCourier handles POST /api/v1/couriers - onboards a new courier.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var request CreateCourierRequest
	if err := s.bind(ctx, &request); err != nil {
		return badRequest(ctx, err)
	}

	userID, err := kernel.UUIDFromString(request.UserID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCreateCourierCommand(userID, request.Name, request.Phone, request.Vehicle)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err := s.createCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"courierId": cmd.CourierID().String()})
}

// CreateAssignment handles POST /api/v1/assignments - dispatches an order.
func (s *Server) CreateAssignment(ctx echo.Context) error {
	var request CreateAssignmentRequest
	if err := s.bind(ctx, &request); err != nil {
		return badRequest(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	options, err := dispatchOptionsFromRequest(request)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCreateAssignmentCommand(orderID, options)
	if err != nil {
		return badRequest(ctx, err)
	}

	created, err := s.createAssignmentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, assignmentResponseFromAggregate(created))
}

// AcceptAssignment handles POST /api/v1/assignments/:id/accept.
func (s *Server) AcceptAssignment(ctx echo.Context) error {
	assignmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, err)
	}

	var request AcceptAssignmentRequest
	if err := s.bind(ctx, &request); err != nil {
		return badRequest(ctx, err)
	}

	courierID, err := kernel.UUIDFromString(request.CourierID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewAcceptAssignmentCommand(assignmentID, courierID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err := s.acceptAssignmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateAssignmentStatus handles PATCH /api/v1/assignments/:id/status.
func (s *Server) UpdateAssignmentStatus(ctx echo.Context) error {
	assignmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, err)
	}

	var request UpdateStatusRequest
	if err := s.bind(ctx, &request); err != nil {
		return badRequest(ctx, err)
	}

	courierID, err := kernel.UUIDFromString(request.CourierID)
	if err != nil {
		return badRequest(ctx, err)
	}

	newStatus, err := assignment.StatusFromString(request.Status)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewUpdateAssignmentStatusCommand(assignmentID, courierID, newStatus, request.Reason)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err := s.updateAssignmentStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateCourierLocation handles PUT /api/v1/couriers/:id/location.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, err)
	}

	var request UpdateLocationRequest
	if err := s.bind(ctx, &request); err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(courierID, request.Lat, request.Lng)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err := s.updateCourierLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetAssignmentByOrder handles GET /api/v1/orders/:orderId/assignment.
func (s *Server) GetAssignmentByOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, err)
	}

	query, err := queries.NewGetAssignmentByOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err)
	}

	found, err := s.getAssignmentByOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, assignmentResponseFromReadModel(found))
}

// ListCourierAssignments handles GET /api/v1/couriers/:id/assignments.
// The optional activeOnly query parameter limits the result to non-terminal
// assignments.
func (s *Server) ListCourierAssignments(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, err)
	}

	activeOnly := ctx.QueryParam("activeOnly") == "true"

	query, err := queries.NewListCourierAssignmentsQuery(courierID, activeOnly)
	if err != nil {
		return badRequest(ctx, err)
	}

	found, err := s.listCourierAssignmentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]AssignmentResponse, len(found))
	for i, m := range found {
		response[i] = assignmentResponseFromReadModel(m)
	}
	return ctx.JSON(http.StatusOK, response)
}

// bind decodes and structurally validates a request body.
func (s *Server) bind(ctx echo.Context, request any) error {
	if err := ctx.Bind(request); err != nil {
		return errors.New("invalid request body")
	}
	return s.validate.Struct(request)
}

// dispatchOptionsFromRequest converts optional wire fields into command
// options, pairing up coordinate halves.
func dispatchOptionsFromRequest(request CreateAssignmentRequest) (commands.CreateAssignmentOptions, error) {
	options := commands.CreateAssignmentOptions{
		PickupAddress:   request.PickupAddress,
		DeliveryAddress: request.DeliveryAddress,
		DeliveryFee:     request.DeliveryFee,
		Tip:             request.Tip,
		Instructions:    request.Instructions,
	}

	if request.RestaurantID != nil {
		id, err := kernel.UUIDFromString(*request.RestaurantID)
		if err != nil {
			return commands.CreateAssignmentOptions{}, err
		}
		options.RestaurantID = &id
	}
	if request.CustomerID != nil {
		id, err := kernel.UUIDFromString(*request.CustomerID)
		if err != nil {
			return commands.CreateAssignmentOptions{}, err
		}
		options.CustomerID = &id
	}

	var err error
	if options.PickupLocation, err = optionalPoint(request.PickupLat, request.PickupLng, "pickup"); err != nil {
		return commands.CreateAssignmentOptions{}, err
	}
	if options.DeliveryLocation, err = optionalPoint(request.DeliveryLat, request.DeliveryLng, "delivery"); err != nil {
		return commands.CreateAssignmentOptions{}, err
	}
	return options, nil
}

// optionalPoint builds a GeoPoint from a pair of optional coordinates.
// Supplying only one half of the pair is an error.
func optionalPoint(lat, lng *float64, name string) (*kernel.GeoPoint, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, errs.NewValueIsRequiredError(name + " coordinates")
	}
	point, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// badRequest renders a structural validation failure.
func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// domainError translates use case errors into HTTP status codes.
func domainError(ctx echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrOrderAlreadyAssigned),
		errors.Is(err, commands.ErrCourierAlreadyOnboarded):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNoCourierAvailable):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, assignment.ErrCourierIsNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, assignment.ErrInvalidTransition),
		errors.Is(err, assignment.ErrAssignmentIsTerminal):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	return ctx.JSON(status, ErrorResponse{Code: status, Message: message})
}
