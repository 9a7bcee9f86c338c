package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"driverdesk/internal/core/application/usecases/queries"

	"github.com/xuri/excelize/v2"
)

const (
	payoutSheet = "Payouts"
	detailSheet = "Orders"
)

var payoutHeader = []string{
	"Payout ID", "Date Created", "Orders", "Total Cash", "Total Fees", "Total Payout", "Status", "Date Paid",
}

var detailHeader = []string{"Payout ID", "Order", "Cash Amount", "Driver Fee"}

// PayoutExport implements queries.PayoutWorkbook. The workbook has one row per
// payout and a second sheet with one row per member order.
type PayoutExport struct{}

func NewPayoutExport() PayoutExport {
	return PayoutExport{}
}

func (PayoutExport) WritePayouts(w io.Writer, driverID string, payouts []queries.PayoutView) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", payoutSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return err
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: "Payouts " + driverID}); err != nil {
		return err
	}

	if err := writeRow(f, payoutSheet, 1, toCells(payoutHeader)); err != nil {
		return err
	}
	if err := writeRow(f, detailSheet, 1, toCells(detailHeader)); err != nil {
		return err
	}

	detailRow := 2
	for i, p := range payouts {
		err := writeRow(f, payoutSheet, i+2, []any{
			p.PayoutID,
			p.DateCreated,
			strings.Join(p.Orders, ", "),
			p.TotalCash.InexactFloat64(),
			p.TotalFees.InexactFloat64(),
			p.TotalPayout.InexactFloat64(),
			p.Status,
			p.DatePaid,
		})
		if err != nil {
			return err
		}

		for _, d := range p.OrderDetails {
			err = writeRow(f, detailSheet, detailRow, []any{
				p.PayoutID,
				d.Name,
				d.CashAmount.InexactFloat64(),
				d.DriverFee.InexactFloat64(),
			})
			if err != nil {
				return err
			}
			detailRow++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(header []string) []any {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}
