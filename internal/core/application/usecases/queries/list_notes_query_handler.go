package queries

import (
	"context"
	"time"

	"driverdesk/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListNotesQueryHandler aggregates parcel count and COD per note in one query.
// Items whose order no longer exists count as parcels with no cash.
type ListNotesQueryHandler struct {
	db *gorm.DB
}

func NewListNotesQueryHandler(db *gorm.DB) ListNotesQueryHandler {
	return ListNotesQueryHandler{db: db}
}

func (h ListNotesQueryHandler) Handle(ctx context.Context, query ListNotesQuery) ([]NoteSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := requireDriver(ctx, h.db, query.DriverID()); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			n.id,
			n.created_at,
			n.status,
			COUNT(i.id),
			COALESCE(SUM(o.cash_amount), 0)
		FROM delivery_notes n
		LEFT JOIN delivery_note_items i ON i.note_id = n.id
		LEFT JOIN orders o ON o.id = i.order_id
		WHERE n.driver_id = ? AND n.status = ?
		GROUP BY n.id, n.created_at, n.status
		ORDER BY n.created_at DESC, n.id DESC
	`, query.DriverID(), string(query.Status())).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]NoteSummary, 0)
	for rows.Next() {
		var (
			s         NoteSummary
			createdAt time.Time
			total     decimal.Decimal
		)
		if err = rows.Scan(&s.ID, &createdAt, &s.Status, &s.Parcels, &total); err != nil {
			return nil, err
		}
		s.CreatedAt = kernel.FormatTimestamp(createdAt)
		s.TotalCOD = total
		notes = append(notes, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}
