package queries

import (
	"errors"

	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetNoteQueryIsNotConstructed = errors.New(
	"GetNoteQuery must be created via NewGetNoteQuery constructor",
)

// GetNoteQuery reads one note of a driver with its items.
type GetNoteQuery struct {
	driverID string
	noteID   int64

	guard guard.ConstructorGuard
}

func NewGetNoteQuery(driverID string, noteID int64) (GetNoteQuery, error) {
	driverID, driverErr := validateDriverID(driverID)
	var idErr error
	if noteID <= 0 {
		idErr = errs.NewValueIsInvalidError("note id")
	}
	if err := errors.Join(driverErr, idErr); err != nil {
		return GetNoteQuery{}, err
	}
	return GetNoteQuery{driverID: driverID, noteID: noteID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNoteQuery) DriverID() string {
	return q.driverID
}

func (q GetNoteQuery) NoteID() int64 {
	return q.noteID
}

func (q GetNoteQuery) Validate() error {
	return q.guard.Validate(ErrGetNoteQueryIsNotConstructed)
}

type NoteItem struct {
	OrderName  string          `json:"orderName"`
	CashAmount decimal.Decimal `json:"cashAmount"`
}

type NoteDetail struct {
	ID        int64      `json:"id"`
	CreatedAt string     `json:"createdAt"`
	Status    string     `json:"status"`
	Items     []NoteItem `json:"items"`
}
