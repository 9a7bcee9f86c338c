// Package noterepo persists delivery notes in "delivery_notes" and their items
// in "delivery_note_items".
package noterepo

import (
	"time"

	"driverdesk/internal/core/domain/model/note"
)

type NoteDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	DriverID   string    `gorm:"type:text;not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	Status     string    `gorm:"type:text;not null"`
	ApprovedAt *time.Time
	Items      []ItemDTO `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE"`
}

func (NoteDTO) TableName() string {
	return "delivery_notes"
}

// ItemDTO files one order into a note. An order belongs to at most one note.
type ItemDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	NoteID    int64     `gorm:"not null;index"`
	OrderID   int64     `gorm:"not null;uniqueIndex"`
	OrderName string    `gorm:"type:text;not null"`
	ScannedAt time.Time `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "delivery_note_items"
}

func fromDomain(n *note.Note) NoteDTO {
	dto := NoteDTO{
		ID:        n.ID(),
		DriverID:  n.DriverID(),
		CreatedAt: n.CreatedAt(),
		Status:    string(n.Status()),
	}
	if at, ok := n.ApprovedAt(); ok {
		dto.ApprovedAt = &at
	}
	for _, it := range n.Items() {
		dto.Items = append(dto.Items, itemFromDomain(n.ID(), it))
	}
	return dto
}

func itemFromDomain(noteID int64, it note.Item) ItemDTO {
	return ItemDTO{
		NoteID:    noteID,
		OrderID:   it.OrderID,
		OrderName: it.OrderName,
		ScannedAt: it.ScannedAt,
	}
}

func toDomain(dto NoteDTO) (*note.Note, error) {
	items := make([]note.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, note.Item{
			OrderID:   it.OrderID,
			OrderName: it.OrderName,
			ScannedAt: it.ScannedAt,
		})
	}
	return note.RestoreNote(dto.ID, dto.DriverID, dto.CreatedAt, note.Status(dto.Status), dto.ApprovedAt, items)
}
