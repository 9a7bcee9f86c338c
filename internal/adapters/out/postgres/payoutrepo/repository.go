package payoutrepo

import (
	"context"
	"errors"
	"strconv"

	"driverdesk/internal/core/domain/model/payout"
	"driverdesk/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPayoutRepository implements ports.PayoutRepository using GORM.
type GormPayoutRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

func NewGormPayoutRepository(db *gorm.DB, tracker aggregateTracker) *GormPayoutRepository {
	return &GormPayoutRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the payout. A second open payout of the driver violates
// uniq_open_payout_per_driver and is reported as a conflict.
func (r *GormPayoutRepository) Add(ctx context.Context, aggregate *payout.Payout) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError("payout "+aggregate.PayoutID(), "driver "+aggregate.DriverID()+" already has it or another open payout")
		}
		return err
	}
	aggregate.AssignID(dto.ID)

	r.tracker.TrackAggregate(trackingKey(dto.ID), aggregate)
	return nil
}

func (r *GormPayoutRepository) Update(ctx context.Context, aggregate *payout.Payout) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&PayoutDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError("payout "+aggregate.PayoutID(), "driver "+aggregate.DriverID()+" already has an open payout")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("payout", dto.PayoutID)
	}

	r.tracker.TrackAggregate(trackingKey(dto.ID), aggregate)
	return nil
}

func (r *GormPayoutRepository) Get(ctx context.Context, driverID, payoutID string) (*payout.Payout, error) {
	var dto PayoutDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND payout_id = ?", driverID, payoutID).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payout", payoutID)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormPayoutRepository) GetOpen(ctx context.Context, driverID string) (*payout.Payout, error) {
	var dto PayoutDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status <> ?", driverID, string(payout.Paid)).
		Order("date_created DESC, id DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("open payout of driver", driverID)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormPayoutRepository) Exists(ctx context.Context, driverID, payoutID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PayoutDTO{}).
		Where("driver_id = ? AND payout_id = ?", driverID, payoutID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormPayoutRepository) List(ctx context.Context, driverID string) ([]*payout.Payout, error) {
	var dtos []PayoutDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Order("date_created DESC, id DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	payouts := make([]*payout.Payout, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, nil
}

func trackingKey(id int64) string {
	return "payout:" + strconv.FormatInt(id, 10)
}
