package otprepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

// GormOtpRepository implements OtpRepository using GORM.
type GormOtpRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOtpRepository creates a new GORM passcode repository.
func NewGormOtpRepository(db *gorm.DB, tracker aggregateTracker) *GormOtpRepository {
	return &GormOtpRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a newly issued passcode to the database.
func (r *GormOtpRepository) Add(ctx context.Context, aggregate *otp.Otp) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves attempt counts and status changes.
func (r *GormOtpRepository) Update(ctx context.Context, aggregate *otp.Otp) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OtpDTO{}).
		Select("*").Omit("id").
		Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a passcode by ID.
func (r *GormOtpRepository) Get(ctx context.Context, id kernel.UUID) (*otp.Otp, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OtpDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("otp", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveForOrder retrieves the pending passcode for an order and purpose.
// The row is locked for the duration of the surrounding transaction so that
// concurrent verification attempts serialize on the attempt counter instead
// of both reading the same count.
func (r *GormOtpRepository) GetActiveForOrder(
	ctx context.Context,
	orderID kernel.UUID,
	purpose otp.Purpose,
) (*otp.Otp, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := purpose.Validate(); err != nil {
		return nil, err
	}

	var dto OtpDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("issued_at DESC").
		First(&dto, "order_id = ? AND purpose = ? AND status = ?",
			orderID.Bytes(), int(purpose), int(otp.StatusPending)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("otp", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetLatestForOrder retrieves the most recently issued passcode for an order
// and purpose regardless of status.
func (r *GormOtpRepository) GetLatestForOrder(
	ctx context.Context,
	orderID kernel.UUID,
	purpose otp.Purpose,
) (*otp.Otp, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := purpose.Validate(); err != nil {
		return nil, err
	}

	var dto OtpDTO
	err := r.db.WithContext(ctx).
		Order("issued_at DESC").
		First(&dto, "order_id = ? AND purpose = ?", orderID.Bytes(), int(purpose)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("otp", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
