package noterepo

import (
	"context"
	"errors"
	"strconv"

	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNoteRepository implements ports.NoteRepository using GORM.
type GormNoteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

func NewGormNoteRepository(db *gorm.DB, tracker aggregateTracker) *GormNoteRepository {
	return &GormNoteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the note with its items. A second draft for the same driver
// violates uniq_open_note_per_driver and is reported as a conflict.
func (r *GormNoteRepository) Add(ctx context.Context, aggregate *note.Note) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError("delivery note", "driver "+aggregate.DriverID()+" already has a draft note")
		}
		return err
	}
	aggregate.AssignID(dto.ID)

	r.tracker.TrackAggregate(trackingKey(dto.ID), aggregate)
	return nil
}

// Update writes the note header and makes the stored items match the aggregate.
func (r *GormNoteRepository) Update(ctx context.Context, aggregate *note.Note) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&NoteDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{"status": dto.Status, "approved_at": dto.ApprovedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery note", dto.ID)
	}

	var stored []ItemDTO
	if err := db.Where("note_id = ?", dto.ID).Find(&stored).Error; err != nil {
		return err
	}

	wanted := make(map[int64]ItemDTO, len(dto.Items))
	for _, it := range dto.Items {
		wanted[it.OrderID] = it
	}

	var removed []int64
	for _, it := range stored {
		if _, ok := wanted[it.OrderID]; ok {
			delete(wanted, it.OrderID)
			continue
		}
		removed = append(removed, it.ID)
	}

	if len(removed) > 0 {
		if err := db.Where("id IN ?", removed).Delete(&ItemDTO{}).Error; err != nil {
			return err
		}
	}
	if len(wanted) > 0 {
		added := make([]ItemDTO, 0, len(wanted))
		for _, it := range dto.Items {
			if _, ok := wanted[it.OrderID]; ok {
				added = append(added, it)
			}
		}
		if err := db.Create(&added).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(trackingKey(dto.ID), aggregate)
	return nil
}

func (r *GormNoteRepository) Get(ctx context.Context, driverID string, id int64) (*note.Note, error) {
	return r.first(ctx, "delivery note", id, "id = ? AND driver_id = ?", id, driverID)
}

func (r *GormNoteRepository) GetOpen(ctx context.Context, driverID string) (*note.Note, error) {
	return r.first(ctx, "draft note of driver", driverID, "driver_id = ? AND status = ?", driverID, string(note.Draft))
}

func (r *GormNoteRepository) FindByOrder(ctx context.Context, orderID int64) (*note.Note, error) {
	return r.first(ctx, "note of order", orderID,
		"id = (SELECT note_id FROM delivery_note_items WHERE order_id = ?)", orderID)
}

func (r *GormNoteRepository) List(ctx context.Context, driverID string, status note.Status) ([]*note.Note, error) {
	q := r.withItems(ctx)
	if driverID != "" {
		q = q.Where("driver_id = ?", driverID)
	}
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var dtos []NoteDTO
	if err := q.Order("created_at DESC, id DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	notes := make([]*note.Note, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (r *GormNoteRepository) first(ctx context.Context, subject string, id any, query string, args ...any) (*note.Note, error) {
	var dto NoteDTO
	if err := r.withItems(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(subject, id)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormNoteRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

func trackingKey(id int64) string {
	return "note:" + strconv.FormatInt(id, 10)
}
