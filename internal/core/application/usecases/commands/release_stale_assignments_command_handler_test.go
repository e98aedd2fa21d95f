package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/ports"
)

func TestReleaseStaleAssignmentsCommandHandler_Handle_CancelsStaleAndReleasesCourier(t *testing.T) {
	ctx := t.Context()
	busyCourier := onDeliveryCourier(t, 12.9716, 77.5946)
	stale := testAssignmentFor(t, busyCourier.ID())

	cmd, err := commands.NewReleaseStaleAssignmentsCommand(5 * time.Minute)
	require.NoError(t, err)

	scanRepo := new(MockAssignmentRepository)
	scanUow := new(MockUoW)
	scanUow.On("AssignmentRepository").Return(scanRepo).Once()
	scanRepo.On("GetStaleAssigned", ctx, mock.AnythingOfType("time.Time")).
		Return([]*assignment.Assignment{stale}, nil).
		Once()

	courierRepo := new(MockCourierRepository)
	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		assignmentRepo.On("GetForUpdate", ctx, stale.ID()).Return(stale, nil).Once(),
		assignmentRepo.On("Update", ctx, stale).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Get", ctx, busyCourier.ID()).Return(busyCourier, nil).Once(),
		courierRepo.On("Update", ctx, busyCourier).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("Notify", mock.MatchedBy(func(event ports.DispatchEvent) bool {
			return event.AssignmentID.IsEqual(stale.ID()) && event.Status == "Cancelled"
		})).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(scanUow).Once()
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReleaseStaleAssignmentsCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, assignment.Cancelled, stale.Status())
	assert.Equal(t, "not accepted in time", stale.CancelReason())
	assert.Equal(t, courier.Available, busyCourier.Availability())
	scanRepo.AssertExpectations(t)
	assignmentRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestReleaseStaleAssignmentsCommandHandler_Handle_SkipsAcceptedRace(t *testing.T) {
	ctx := t.Context()
	busyCourier := onDeliveryCourier(t, 12.9716, 77.5946)
	accepted := testAssignmentFor(t, busyCourier.ID())
	require.NoError(t, accepted.Accept(busyCourier.ID(), time.Now().UTC()))

	cmd, err := commands.NewReleaseStaleAssignmentsCommand(5 * time.Minute)
	require.NoError(t, err)

	scanRepo := new(MockAssignmentRepository)
	scanUow := new(MockUoW)
	scanUow.On("AssignmentRepository").Return(scanRepo).Once()
	scanRepo.On("GetStaleAssigned", ctx, mock.AnythingOfType("time.Time")).
		Return([]*assignment.Assignment{accepted}, nil).
		Once()

	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		assignmentRepo.On("GetForUpdate", ctx, accepted.ID()).Return(accepted, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(scanUow).Once()
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReleaseStaleAssignmentsCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, assignment.Accepted, accepted.Status())
	notifier.AssertNotCalled(t, "Notify", mock.Anything)
	assignmentRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestReleaseStaleAssignmentsCommandHandler_Handle_NothingStale(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewReleaseStaleAssignmentsCommand(5 * time.Minute)
	require.NoError(t, err)

	scanRepo := new(MockAssignmentRepository)
	scanUow := new(MockUoW)
	scanUow.On("AssignmentRepository").Return(scanRepo).Once()
	scanRepo.On("GetStaleAssigned", ctx, mock.AnythingOfType("time.Time")).
		Return([]*assignment.Assignment{}, nil).
		Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(scanUow).Once()
	notifier := new(MockNotifier)

	handler := commands.NewReleaseStaleAssignmentsCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "Notify", mock.Anything)
	scanRepo.AssertExpectations(t)
}

func TestReleaseStaleAssignmentsCommandHandler_Handle_ContinuesPastFailures(t *testing.T) {
	ctx := t.Context()
	firstCourier := onDeliveryCourier(t, 12.9716, 77.5946)
	secondCourier := onDeliveryCourier(t, 12.9352, 77.6245)
	broken := testAssignmentFor(t, firstCourier.ID())
	healthy := testAssignmentFor(t, secondCourier.ID())

	cmd, err := commands.NewReleaseStaleAssignmentsCommand(5 * time.Minute)
	require.NoError(t, err)

	scanRepo := new(MockAssignmentRepository)
	scanUow := new(MockUoW)
	scanUow.On("AssignmentRepository").Return(scanRepo).Once()
	scanRepo.On("GetStaleAssigned", ctx, mock.AnythingOfType("time.Time")).
		Return([]*assignment.Assignment{broken, healthy}, nil).
		Once()

	// First candidate fails at the locked read
	brokenRepo := new(MockAssignmentRepository)
	brokenUow := new(MockUoW)
	brokenUow.On("Begin", ctx).Return(nil).Once()
	brokenUow.On("AssignmentRepository").Return(brokenRepo).Once()
	brokenRepo.On("GetForUpdate", ctx, broken.ID()).Return(nil, assert.AnError).Once()
	brokenUow.On("Rollback", ctx).Return(nil).Once()

	// Second candidate is swept normally
	courierRepo := new(MockCourierRepository)
	healthyRepo := new(MockAssignmentRepository)
	healthyUow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		healthyUow.On("Begin", ctx).Return(nil).Once(),
		healthyUow.On("AssignmentRepository").Return(healthyRepo).Once(),
		healthyRepo.On("GetForUpdate", ctx, healthy.ID()).Return(healthy, nil).Once(),
		healthyRepo.On("Update", ctx, healthy).Return(nil).Once(),
		healthyUow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Get", ctx, secondCourier.ID()).Return(secondCourier, nil).Once(),
		courierRepo.On("Update", ctx, secondCourier).Return(nil).Once(),
		healthyUow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("Notify", mock.AnythingOfType("ports.DispatchEvent")).Once(),
		healthyUow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(scanUow).Once()
	factory.On("Create").Return(brokenUow).Once()
	factory.On("Create").Return(healthyUow).Once()

	handler := commands.NewReleaseStaleAssignmentsCommandHandler(factory, notifier)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, assignment.Cancelled, healthy.Status())
	brokenRepo.AssertExpectations(t)
	healthyRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestReleaseStaleAssignmentsCommandHandler_Handle_NotConstructedCommand(t *testing.T) {
	handler := commands.NewReleaseStaleAssignmentsCommandHandler(new(MockUoWFactory), new(MockNotifier))

	var cmd commands.ReleaseStaleAssignmentsCommand
	err := handler.Handle(t.Context(), cmd)

	assert.ErrorIs(t, err, commands.ErrReleaseStaleAssignmentsCommandIsNotConstructed)
}
