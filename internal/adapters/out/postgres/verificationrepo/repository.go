package verificationrepo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"driverdesk/internal/core/domain/model/verification"
	"driverdesk/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormVerificationRepository implements ports.VerificationRepository using GORM.
type GormVerificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

func NewGormVerificationRepository(db *gorm.DB, tracker aggregateTracker) *GormVerificationRepository {
	return &GormVerificationRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormVerificationRepository) Add(ctx context.Context, row *verification.Row) error {
	if err := row.Validate(); err != nil {
		return err
	}

	dto := fromDomain(row)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	row.AssignID(dto.ID)

	r.tracker.TrackAggregate(trackingKey(dto.ID), row)
	return nil
}

func (r *GormVerificationRepository) Update(ctx context.Context, row *verification.Row) error {
	if err := row.Validate(); err != nil {
		return err
	}

	dto := fromDomain(row)
	result := r.db.WithContext(ctx).Model(&VerificationDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("verification row", dto.ID)
	}

	r.tracker.TrackAggregate(trackingKey(dto.ID), row)
	return nil
}

func (r *GormVerificationRepository) Get(ctx context.Context, id int64) (*verification.Row, error) {
	var dto VerificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("verification row", id)
		}
		return nil, err
	}
	return toDomain(dto), nil
}

func (r *GormVerificationRepository) FindByName(ctx context.Context, orderName string) ([]*verification.Row, error) {
	var dtos []VerificationDTO
	if err := r.db.WithContext(ctx).Where("order_name = ?", orderName).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos), nil
}

func (r *GormVerificationRepository) ListByDates(ctx context.Context, start, end, q string) ([]*verification.Row, error) {
	query := r.db.WithContext(ctx).Where("order_date BETWEEN ? AND ?", start, end)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + escapeLike(q) + "%"
		query = query.Where("(order_name ILIKE ? OR customer_name ILIKE ?)", like, like)
	}

	var dtos []VerificationDTO
	if err := query.Order("id DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func trackingKey(id int64) string {
	return "verification:" + strconv.FormatInt(id, 10)
}
