package queries

import (
	"context"
	"errors"
	"io"

	"driverdesk/internal/pkg/guard"
)

var ErrExportPayoutsQueryIsNotConstructed = errors.New(
	"ExportPayoutsQuery must be created via NewExportPayoutsQuery constructor",
)

// PayoutWorkbook renders payouts as a spreadsheet document.
type PayoutWorkbook interface {
	WritePayouts(w io.Writer, driverID string, payouts []PayoutView) error
}

type ExportPayoutsQuery struct {
	driverID string

	guard guard.ConstructorGuard
}

func NewExportPayoutsQuery(driverID string) (ExportPayoutsQuery, error) {
	driverID, err := validateDriverID(driverID)
	if err != nil {
		return ExportPayoutsQuery{}, err
	}
	return ExportPayoutsQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q ExportPayoutsQuery) DriverID() string {
	return q.driverID
}

func (q ExportPayoutsQuery) Validate() error {
	return q.guard.Validate(ErrExportPayoutsQueryIsNotConstructed)
}

// ExportPayoutsQueryHandler writes the payouts listing of a driver to w.
type ExportPayoutsQueryHandler struct {
	payouts  ListPayoutsQueryHandler
	workbook PayoutWorkbook
}

func NewExportPayoutsQueryHandler(payouts ListPayoutsQueryHandler, workbook PayoutWorkbook) ExportPayoutsQueryHandler {
	return ExportPayoutsQueryHandler{payouts: payouts, workbook: workbook}
}

func (h ExportPayoutsQueryHandler) Handle(ctx context.Context, query ExportPayoutsQuery, w io.Writer) error {
	if err := query.Validate(); err != nil {
		return err
	}

	list, err := NewListPayoutsQuery(query.DriverID())
	if err != nil {
		return err
	}
	payouts, err := h.payouts.Handle(ctx, list)
	if err != nil {
		return err
	}

	return h.workbook.WritePayouts(w, query.DriverID(), payouts)
}
