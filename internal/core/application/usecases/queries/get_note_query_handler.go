package queries

import (
	"context"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetNoteQueryHandler struct {
	db *gorm.DB
}

func NewGetNoteQueryHandler(db *gorm.DB) GetNoteQueryHandler {
	return GetNoteQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError when the note belongs to another driver.
// Items are listed in scan order and skip orders that no longer exist.
func (h GetNoteQueryHandler) Handle(ctx context.Context, query GetNoteQuery) (NoteDetail, error) {
	if err := query.Validate(); err != nil {
		return NoteDetail{}, err
	}

	db := h.db.WithContext(ctx)

	var head struct {
		ID        int64
		CreatedAt time.Time
		Status    string
	}
	res := db.Raw(`
		SELECT id, created_at, status
		FROM delivery_notes
		WHERE id = ? AND driver_id = ?
	`, query.NoteID(), query.DriverID()).Scan(&head)
	if res.Error != nil {
		return NoteDetail{}, res.Error
	}
	if res.RowsAffected == 0 {
		return NoteDetail{}, errs.NewObjectNotFoundError("note", query.NoteID())
	}

	items := make([]NoteItem, 0)
	err := db.Raw(`
		SELECT o.order_name, o.cash_amount
		FROM delivery_note_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.note_id = ?
		ORDER BY i.id
	`, head.ID).Scan(&items).Error
	if err != nil {
		return NoteDetail{}, err
	}

	return NoteDetail{
		ID:        head.ID,
		CreatedAt: kernel.FormatTimestamp(head.CreatedAt),
		Status:    head.Status,
		Items:     items,
	}, nil
}
