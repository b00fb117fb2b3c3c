package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if err := r.appendLogs(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database.
//
// A fresh agent claim is written conditionally: the row must still be
// unclaimed, or hold only a terminally rejected claim. When two admins race
// to assign the same order, exactly one write matches and the loser gets a
// state conflict instead of silently overwriting the winner.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	freshClaim := aggregate.Assignment() != nil &&
		aggregate.Assignment().SubStatus() == order.SubAssigned

	tx := r.db.WithContext(ctx).Model(&OrderDTO{}).Select("*").Omit("id")
	if freshClaim {
		tx = tx.Where("id = ? AND (agent_id IS NULL OR sub_status = ?)",
			dto.ID, int(order.SubRejected))
	} else {
		tx = tx.Where("id = ?", dto.ID)
	}

	result := tx.Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if freshClaim && r.exists(ctx, dto.ID) {
			return errs.NewStateConflictErrorWithCause("order",
				order.PickupReady.String(), order.PickupReady.String(),
				errors.New("order already claimed by another agent"))
		}
		return gorm.ErrRecordNotFound
	}

	if err := r.appendLogs(ctx, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID, including its timeline and audit trail.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetAllUnassigned retrieves orders awaiting an agent: Pending or Processing
// with no active claim.
func (r *GormOrderRepository) GetAllUnassigned(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status IN ? AND agent_id IS NULL",
			[]int{int(order.Pending), int(order.Processing)}).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, loadErr := r.load(ctx, dto)
		if loadErr != nil {
			return nil, loadErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// GetAllAwaitingAcceptance retrieves orders whose claim is still sitting
// unaccepted: assigned before the cutoff with no agent response yet.
func (r *GormOrderRepository) GetAllAwaitingAcceptance(
	ctx context.Context, assignedBefore time.Time,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "sub_status = ? AND assigned_at <= ?",
			int(order.SubAssigned), assignedBefore).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, loadErr := r.load(ctx, dto)
		if loadErr != nil {
			return nil, loadErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) load(ctx context.Context, dto OrderDTO) (*order.Order, error) {
	var tracking []TrackingEventDTO
	err := r.db.WithContext(ctx).
		Order("seq").
		Find(&tracking, "order_id = ?", dto.ID).Error
	if err != nil {
		return nil, err
	}

	var history []StatusChangeDTO
	err = r.db.WithContext(ctx).
		Order("seq").
		Find(&history, "order_id = ?", dto.ID).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto, tracking, history)
}

// appendLogs inserts the aggregate's timeline and audit rows. Both logs are
// append-only and keyed by (order_id, seq), so rows already present are left
// untouched.
func (r *GormOrderRepository) appendLogs(ctx context.Context, aggregate *order.Order) error {
	if tracking := trackingFromDomain(aggregate); len(tracking) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&tracking).Error
		if err != nil {
			return err
		}
	}

	if history := historyFromDomain(aggregate); len(history) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&history).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *GormOrderRepository) exists(ctx context.Context, id any) bool {
	var count int64
	r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id).Count(&count)
	return count > 0
}
