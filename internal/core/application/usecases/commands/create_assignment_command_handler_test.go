package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const (
	testMatchRadiusKm = 15.0
	testDefaultFee    = 49.0
)

func newCreateAssignmentHandler(
	t *testing.T,
	factory commands.UoWFactory,
	orderReader ports.OrderReader,
	restaurantReader ports.RestaurantReader,
	notifier ports.Notifier,
) commands.CreateAssignmentCommandHandler {
	t.Helper()
	estimator, err := services.NewRouteEstimator(30)
	require.NoError(t, err)
	return commands.NewCreateAssignmentCommandHandler(
		factory,
		commands.NewEnrichmentResolver(orderReader, restaurantReader, testDefaultFee),
		services.NewCourierMatcher(),
		estimator,
		notifier,
		testMatchRadiusKm,
	)
}

func TestCreateAssignmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateAssignmentCommand(orderID, commands.CreateAssignmentOptions{})
	require.NoError(t, err)

	restaurantID := kernel.NewUUID()
	customerID := kernel.NewUUID()
	pickup := testGeoPoint(t, 12.9716, 77.5946)
	delivery := testGeoPoint(t, 12.9352, 77.6245)
	matchedCourier := testCourierAt(t, 12.9750, 77.6000)

	orderReader := new(MockOrderReader)
	restaurantReader := new(MockRestaurantReader)
	notifier := new(MockNotifier)
	assignmentRepo := new(MockAssignmentRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	orderReader.On("GetOrder", ctx, orderID).Return(ports.OrderSnapshot{
		OrderID:          orderID,
		RestaurantID:     restaurantID,
		CustomerID:       customerID,
		DeliveryAddress:  "4 Residency Road",
		DeliveryLocation: &delivery,
	}, nil).Once()
	restaurantReader.On("GetRestaurant", ctx, restaurantID).Return(ports.RestaurantSnapshot{
		RestaurantID: restaurantID,
		Address:      "12 MG Road",
		Location:     &pickup,
	}, nil).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		assignmentRepo.On("GetByOrderID", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{matchedCourier}, nil).Once(),
		assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("Notify", mock.AnythingOfType("ports.DispatchEvent")).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newCreateAssignmentHandler(t, factory, orderReader, restaurantReader, notifier)
	created, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, assignment.Assigned, created.Status())
	assert.True(t, created.OrderID().IsEqual(orderID))
	assert.True(t, created.CourierID().IsEqual(matchedCourier.ID()))
	assert.True(t, created.RestaurantID().IsEqual(restaurantID))
	assert.True(t, created.CustomerID().IsEqual(customerID))
	assert.Equal(t, "12 MG Road", created.PickupAddress())
	assert.Equal(t, "4 Residency Road", created.DeliveryAddress())
	assert.Equal(t, testDefaultFee, created.DeliveryFee())
	assert.Zero(t, created.Tip())
	assert.Positive(t, created.EstimatedDistanceKm())
	assert.Positive(t, created.EstimatedDurationMin())
	require.NotNil(t, created.CurrentLocation())
	assert.Equal(t, courier.OnDelivery, matchedCourier.Availability())

	orderReader.AssertExpectations(t)
	restaurantReader.AssertExpectations(t)
	notifier.AssertExpectations(t)
	assignmentRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateAssignmentCommandHandler_Handle_OrderAlreadyAssigned(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateAssignmentCommand(orderID, commands.CreateAssignmentOptions{})
	require.NoError(t, err)

	existing := testAssignmentFor(t, kernel.NewUUID())

	assignmentRepo := new(MockAssignmentRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		assignmentRepo.On("GetByOrderID", ctx, orderID).Return(existing, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newCreateAssignmentHandler(t, factory, new(MockOrderReader), new(MockRestaurantReader), notifier)
	created, err := handler.Handle(ctx, cmd)

	assert.Nil(t, created)
	require.ErrorIs(t, err, commands.ErrOrderAlreadyAssigned)
	notifier.AssertNotCalled(t, "Notify", mock.Anything)
}

func TestCreateAssignmentCommandHandler_Handle_DuplicateOnInsert(t *testing.T) {
	// A concurrent dispatch can slip in between the uniqueness check and the
	// insert; the order ID unique constraint catches it.
	ctx := t.Context()
	orderID := kernel.NewUUID()
	pickup := testGeoPoint(t, 12.9716, 77.5946)
	delivery := testGeoPoint(t, 12.9352, 77.6245)
	restaurantID := kernel.NewUUID()
	customerID := kernel.NewUUID()

	cmd, err := commands.NewCreateAssignmentCommand(orderID, commands.CreateAssignmentOptions{
		RestaurantID:     &restaurantID,
		CustomerID:       &customerID,
		PickupAddress:    "12 MG Road",
		PickupLocation:   &pickup,
		DeliveryAddress:  "4 Residency Road",
		DeliveryLocation: &delivery,
	})
	require.NoError(t, err)

	matchedCourier := testCourierAt(t, 12.9750, 77.6000)

	assignmentRepo := new(MockAssignmentRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		assignmentRepo.On("GetByOrderID", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{matchedCourier}, nil).Once(),
		assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).
			Return(errs.NewObjectAlreadyExistsError("orderID", orderID.String())).
			Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newCreateAssignmentHandler(t, factory, new(MockOrderReader), new(MockRestaurantReader), notifier)
	created, err := handler.Handle(ctx, cmd)

	assert.Nil(t, created)
	require.ErrorIs(t, err, commands.ErrOrderAlreadyAssigned)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCreateAssignmentCommandHandler_Handle_NoCourierAvailable(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	pickup := testGeoPoint(t, 12.9716, 77.5946)
	delivery := testGeoPoint(t, 12.9352, 77.6245)
	restaurantID := kernel.NewUUID()
	customerID := kernel.NewUUID()

	cmd, err := commands.NewCreateAssignmentCommand(orderID, commands.CreateAssignmentOptions{
		RestaurantID:     &restaurantID,
		CustomerID:       &customerID,
		PickupAddress:    "12 MG Road",
		PickupLocation:   &pickup,
		DeliveryAddress:  "4 Residency Road",
		DeliveryLocation: &delivery,
	})
	require.NoError(t, err)

	assignmentRepo := new(MockAssignmentRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		assignmentRepo.On("GetByOrderID", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		courierRepo.On("GetAllAvailable", ctx).Return([]*courier.Courier{}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newCreateAssignmentHandler(t, factory, new(MockOrderReader), new(MockRestaurantReader), notifier)
	created, err := handler.Handle(ctx, cmd)

	assert.Nil(t, created)
	require.ErrorIs(t, err, services.ErrNoCourierAvailable)
	notifier.AssertNotCalled(t, "Notify", mock.Anything)
}

func TestCreateAssignmentCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateAssignmentCommand(orderID, commands.CreateAssignmentOptions{})
	require.NoError(t, err)

	orderReader := new(MockOrderReader)
	orderReader.On("GetOrder", ctx, orderID).
		Return(ports.OrderSnapshot{}, errs.NewObjectNotFoundError("orderID", orderID.String())).
		Once()

	assignmentRepo := new(MockAssignmentRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		assignmentRepo.On("GetByOrderID", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newCreateAssignmentHandler(t, factory, orderReader, new(MockRestaurantReader), new(MockNotifier))
	created, err := handler.Handle(ctx, cmd)

	assert.Nil(t, created)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCreateAssignmentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateAssignmentCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := newCreateAssignmentHandler(t, factory, new(MockOrderReader), new(MockRestaurantReader), new(MockNotifier))
	created, err := handler.Handle(ctx, cmd)

	assert.Nil(t, created)
	require.ErrorIs(t, err, commands.ErrCreateAssignmentCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
