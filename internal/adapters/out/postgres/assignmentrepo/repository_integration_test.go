package assignmentrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// AssignmentRepositoryIntegrationTestSuite provides integration tests for
// AssignmentRepository using PostgreSQL containers.
type AssignmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *assignmentrepo.GormAssignmentRepository
	tracker    *MockAggregateTracker
}

func (suite *AssignmentRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&assignmentrepo.AssignmentDTO{}))
}

func (suite *AssignmentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE assignments").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = assignmentrepo.NewGormAssignmentRepository(suite.db, suite.tracker)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTripsAllFields() {
	ctx := context.Background()

	original := suite.createTestAssignment(kernel.NewUUID(), kernel.NewUUID())

	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.OrderID(), retrieved.OrderID())
	suite.Equal(original.CourierID(), retrieved.CourierID())
	suite.Equal(original.RestaurantID(), retrieved.RestaurantID())
	suite.Equal(original.CustomerID(), retrieved.CustomerID())
	suite.Equal(assignment.Assigned, retrieved.Status())
	suite.Equal(original.PickupAddress(), retrieved.PickupAddress())
	suite.InDelta(original.PickupLocation().Lat(), retrieved.PickupLocation().Lat(), 1e-9)
	suite.InDelta(original.PickupLocation().Lng(), retrieved.PickupLocation().Lng(), 1e-9)
	suite.Equal(original.DeliveryAddress(), retrieved.DeliveryAddress())
	suite.InDelta(original.EstimatedDistanceKm(), retrieved.EstimatedDistanceKm(), 1e-9)
	suite.Equal(original.EstimatedDurationMin(), retrieved.EstimatedDurationMin())
	suite.InDelta(original.DeliveryFee(), retrieved.DeliveryFee(), 1e-9)
	suite.Equal(original.Instructions(), retrieved.Instructions())
	suite.Require().NotNil(retrieved.CurrentLocation())
	suite.Nil(retrieved.AcceptedAt())
	suite.Nil(retrieved.DeliveredAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestAdd_DuplicateOrderID_ReturnsAlreadyExistsError() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	first := suite.createTestAssignment(orderID, kernel.NewUUID())
	second := suite.createTestAssignment(orderID, kernel.NewUUID())

	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	err := suite.repository.Add(ctx, second)
	suite.Require().Error(err)

	var alreadyExists *errs.ObjectAlreadyExistsError
	suite.Require().ErrorAs(err, &alreadyExists)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestGet_NonExistent_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestGetByOrderID() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	original := suite.createTestAssignment(orderID, kernel.NewUUID())

	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.GetByOrderID(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(original.ID(), retrieved.ID())

	// Unknown order yields not found
	_, err = suite.repository.GetByOrderID(ctx, kernel.NewUUID())
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestUpdate_PersistsLifecycleProgress() {
	ctx := context.Background()

	courierID := kernel.NewUUID()
	original := suite.createTestAssignment(kernel.NewUUID(), courierID)

	suite.tracker.On("TrackAggregate", original.ID(), original)
	suite.Require().NoError(suite.repository.Add(ctx, original))

	now := time.Now().UTC()
	suite.Require().NoError(original.Accept(courierID, now))
	suite.Require().NoError(suite.repository.Update(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Accepted, retrieved.Status())
	suite.Require().NotNil(retrieved.AcceptedAt())
	suite.WithinDuration(now, *retrieved.AcceptedAt(), time.Second)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestUpdate_NonExistent_ReturnsError() {
	ctx := context.Background()

	ghost := suite.createTestAssignment(kernel.NewUUID(), kernel.NewUUID())

	err := suite.repository.Update(ctx, ghost)
	suite.Require().Error(err)
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestGetForUpdate_LocksRow() {
	ctx := context.Background()

	original := suite.createTestAssignment(kernel.NewUUID(), kernel.NewUUID())
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	// Inside a transaction the locked read returns the same aggregate state
	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	txRepo := assignmentrepo.NewGormAssignmentRepository(tx, suite.tracker)
	locked, err := txRepo.GetForUpdate(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(original.ID(), locked.ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestGetActiveByCourier_ExcludesTerminalAndParked() {
	ctx := context.Background()

	courierID := kernel.NewUUID()
	now := time.Now().UTC()

	inFlight := suite.createTestAssignment(kernel.NewUUID(), courierID)

	parked := suite.createTestAssignment(kernel.NewUUID(), courierID)
	suite.Require().NoError(parked.Accept(courierID, now))
	suite.Require().NoError(parked.ChangeStatus(assignment.HeadingToPickup, now))
	suite.Require().NoError(parked.ChangeStatus(assignment.ArrivedAtPickup, now))

	cancelled := suite.createTestAssignment(kernel.NewUUID(), courierID)
	suite.Require().NoError(cancelled.Cancel("customer no-show", now))

	other := suite.createTestAssignment(kernel.NewUUID(), kernel.NewUUID())

	for _, a := range []*assignment.Assignment{inFlight, parked, cancelled, other} {
		suite.tracker.On("TrackAggregate", a.ID(), a).Once()
		suite.Require().NoError(suite.repository.Add(ctx, a))
	}

	active, err := suite.repository.GetActiveByCourier(ctx, courierID)
	suite.Require().NoError(err)

	suite.Require().Len(active, 1)
	suite.Equal(inFlight.ID(), active[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestGetAllByCourier_ReturnsFullHistory() {
	ctx := context.Background()

	courierID := kernel.NewUUID()
	now := time.Now().UTC()

	first := suite.createTestAssignment(kernel.NewUUID(), courierID)
	second := suite.createTestAssignment(kernel.NewUUID(), courierID)
	suite.Require().NoError(second.Cancel("restaurant closed", now))

	for _, a := range []*assignment.Assignment{first, second} {
		suite.tracker.On("TrackAggregate", a.ID(), a).Once()
		suite.Require().NoError(suite.repository.Add(ctx, a))
	}

	all, err := suite.repository.GetAllByCourier(ctx, courierID)
	suite.Require().NoError(err)
	suite.Len(all, 2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *AssignmentRepositoryIntegrationTestSuite) TestGetStaleAssigned_FiltersByStatusAndAge() {
	ctx := context.Background()

	stale := suite.createTestAssignment(kernel.NewUUID(), kernel.NewUUID())
	fresh := suite.createTestAssignment(kernel.NewUUID(), kernel.NewUUID())
	accepted := suite.createTestAssignment(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(accepted.Accept(accepted.CourierID(), time.Now().UTC()))

	for _, a := range []*assignment.Assignment{stale, fresh, accepted} {
		suite.tracker.On("TrackAggregate", a.ID(), a).Once()
		suite.Require().NoError(suite.repository.Add(ctx, a))
	}

	// Age the stale row directly; created_at is immutable through the repository
	err := suite.db.Exec(
		"UPDATE assignments SET created_at = ? WHERE id = ?",
		time.Now().UTC().Add(-time.Hour), stale.ID().Bytes(),
	).Error
	suite.Require().NoError(err)

	cutoff := time.Now().UTC().Add(-10 * time.Minute)
	staleAssignments, err := suite.repository.GetStaleAssigned(ctx, cutoff)
	suite.Require().NoError(err)

	suite.Require().Len(staleAssignments, 1)
	suite.Equal(stale.ID(), staleAssignments[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

// createTestAssignment builds a freshly dispatched assignment for the given order and courier.
func (suite *AssignmentRepositoryIntegrationTestSuite) createTestAssignment(
	orderID, courierID kernel.UUID,
) *assignment.Assignment {
	pickup, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)
	delivery, err := kernel.NewGeoPoint(12.9352, 77.6245)
	suite.Require().NoError(err)
	courierAt, err := kernel.NewGeoPoint(12.9650, 77.5900)
	suite.Require().NoError(err)

	details := assignment.Details{
		RestaurantID:         kernel.NewUUID(),
		CustomerID:           kernel.NewUUID(),
		PickupAddress:        "12 MG Road",
		PickupLocation:       pickup,
		DeliveryAddress:      "48 Koramangala 5th Block",
		DeliveryLocation:     delivery,
		EstimatedDistanceKm:  5.18,
		EstimatedDurationMin: 11,
		DeliveryFee:          3.5,
		Tip:                  1.25,
		Instructions:         "ring the bell twice",
	}

	testAssignment, err := assignment.NewAssignment(
		kernel.NewUUID(), orderID, courierID, details, &courierAt, time.Now().UTC())
	suite.Require().NoError(err)
	return testAssignment
}

func TestAssignmentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentRepositoryIntegrationTestSuite))
}
