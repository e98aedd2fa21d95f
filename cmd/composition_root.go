package cmd

import (
	"log/slog"
	"time"

	"dispatch/internal/adapters/out/foreign"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	matcher    services.CourierMatcher
	estimator  services.RouteEstimator
	notifier   *notify.AsyncNotifier
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	matcher := services.NewCourierMatcher()

	estimator, err := services.NewRouteEstimator(config.AvgSpeedKmh)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		matcher:    matcher,
		estimator:  estimator,
		notifier:   notify.NewAsyncNotifier(config.NotifierBufferSize, nil, logger),
		logger:     logger,
	}, nil
}

// Notifier returns the shared dispatch event publisher so the application
// can start and stop it with the process lifecycle.
func (c *CompositionRoot) Notifier() *notify.AsyncNotifier {
	return c.notifier
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateAssignmentCommandHandler() commands.CreateAssignmentCommandHandler {
	resolver := commands.NewEnrichmentResolver(
		foreign.NewGormOrderReader(c.gormDB),
		foreign.NewGormRestaurantReader(c.gormDB),
		c.config.DefaultDeliveryFee,
	)
	return commands.NewCreateAssignmentCommandHandler(
		c.uowFunc(),
		resolver,
		c.matcher,
		c.estimator,
		c.notifier,
		c.config.MatchRadiusKm,
	)
}

func (c *CompositionRoot) CreateAcceptAssignmentCommandHandler() commands.AcceptAssignmentCommandHandler {
	return commands.NewAcceptAssignmentCommandHandler(c.uowFunc(), c.notifier)
}

func (c *CompositionRoot) CreateUpdateAssignmentStatusCommandHandler() commands.UpdateAssignmentStatusCommandHandler {
	return commands.NewUpdateAssignmentStatusCommandHandler(c.uowFunc(), c.notifier)
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.uowFunc())
}

func (c *CompositionRoot) CreateReleaseStaleAssignmentsCommandHandler() commands.ReleaseStaleAssignmentsCommandHandler {
	return commands.NewReleaseStaleAssignmentsCommandHandler(c.uowFunc(), c.notifier)
}

func (c *CompositionRoot) CreateGetAssignmentByOrderQueryHandler() queries.GetAssignmentByOrderQueryHandler {
	return queries.NewGetAssignmentByOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListCourierAssignmentsQueryHandler() queries.ListCourierAssignmentsQueryHandler {
	return queries.NewListCourierAssignmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateReleaseStaleAssignmentsCommandHandler(),
		time.Duration(c.config.StaleMaxAgeMin)*time.Minute,
		c.logger,
	)
}

func (c *CompositionRoot) uowFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
