package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment to the database.
// A duplicate order ID surfaces as errs.ObjectAlreadyExistsError, which is
// how a losing concurrent dispatch for the same order fails.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("orderID", aggregate.OrderID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing assignment to the database.
func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *assignment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an assignment by ID.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves an assignment by ID with a row-level lock held
// until the surrounding transaction ends. Concurrent lifecycle updates on
// the same assignment serialize behind the lock.
func (r *GormAssignmentRepository) GetForUpdate(
	ctx context.Context,
	id kernel.UUID,
) (*assignment.Assignment, error) {
	return r.get(ctx, id, true)
}

func (r *GormAssignmentRepository) get(
	ctx context.Context,
	id kernel.UUID,
	forUpdate bool,
) (*assignment.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto AssignmentDTO
	if err := tx.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderID retrieves the assignment created for the given order.
func (r *GormAssignmentRepository) GetByOrderID(
	ctx context.Context,
	orderID kernel.UUID,
) (*assignment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderID", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByCourier retrieves the courier's in-flight assignments, newest
// first. Assignments parked at a pickup or delivery point are excluded: the
// courier is not moving, so position fan-out would only churn rows.
func (r *GormAssignmentRepository) GetActiveByCourier(
	ctx context.Context,
	courierID kernel.UUID,
) ([]*assignment.Assignment, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	return r.findAll(ctx,
		"courier_id = ? AND status IN (?,?,?,?,?)",
		courierID.Bytes(),
		int(assignment.Assigned),
		int(assignment.Accepted),
		int(assignment.HeadingToPickup),
		int(assignment.PickedUp),
		int(assignment.HeadingToDelivery),
	)
}

// GetAllByCourier retrieves every assignment ever dispatched to the courier,
// newest first.
func (r *GormAssignmentRepository) GetAllByCourier(
	ctx context.Context,
	courierID kernel.UUID,
) ([]*assignment.Assignment, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	return r.findAll(ctx, "courier_id = ?", courierID.Bytes())
}

// GetStaleAssigned retrieves assignments stuck in the Assigned status that
// were created before the cutoff.
func (r *GormAssignmentRepository) GetStaleAssigned(
	ctx context.Context,
	cutoff time.Time,
) ([]*assignment.Assignment, error) {
	return r.findAll(ctx, "status = ? AND created_at < ?", int(assignment.Assigned), cutoff)
}

func (r *GormAssignmentRepository) findAll(
	ctx context.Context,
	query string,
	args ...any,
) ([]*assignment.Assignment, error) {
	var dtos []AssignmentDTO
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}
