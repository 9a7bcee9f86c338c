package orderrepo

import (
	"context"
	"errors"
	"strconv"

	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/pkg/errs"

	"gorm.io/gorm"
)

// hiddenByDraftNote matches orders filed in a draft delivery note.
const hiddenByDraftNote = `EXISTS (
	SELECT 1 FROM delivery_note_items i
	JOIN delivery_notes n ON n.id = i.note_id
	WHERE i.order_id = orders.id AND n.status = ?)`

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and assigns its id. A second scan of the same
// (driver, name) violates the unique index and is reported as a conflict
// when the connection translates errors (gorm.Config.TranslateError).
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError("order "+aggregate.Name(), "already scanned by "+aggregate.DriverID())
		}
		return err
	}
	if err := aggregate.AssignID(dto.ID); err != nil {
		return err
	}

	r.tracker.TrackAggregate(trackingKey(dto.ID), aggregate)
	return nil
}

// Update writes every column, zero values included.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", dto.ID)
	}

	r.tracker.TrackAggregate(trackingKey(dto.ID), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, driverID, name string) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND order_name = ?", driverID, name).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", name)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) Exists(ctx context.Context, driverID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("driver_id = ? AND order_name = ?", driverID, name).
		Count(&count).Error
	return count > 0, err
}

func (r *GormOrderRepository) ListVisible(ctx context.Context, driverID string) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", driverID).
		Where("NOT "+hiddenByDraftNote, string(note.Draft)).
		Order("timestamp DESC, id DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) ListByIDs(ctx context.Context, ids []int64) ([]*order.Order, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) ListByPayout(ctx context.Context, driverID, payoutID string) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND payout_id = ?", driverID, payoutID).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) FindLatestByName(ctx context.Context, name string) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Where("order_name = ?", name).
		Order("timestamp DESC, id DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", name)
		}
		return nil, err
	}

	return toDomain(dto)
}

func trackingKey(id int64) string {
	return "order:" + strconv.FormatInt(id, 10)
}
