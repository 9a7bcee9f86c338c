package spreadsheet

import (
	"context"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/verification"
)

// ExpectedOrders implements ports.ExpectedOrderSource over the verification workbook.
type ExpectedOrders struct {
	book Workbook
}

func NewExpectedOrders(book Workbook) ExpectedOrders {
	return ExpectedOrders{book: book}
}

// ExpectedOrders returns every row with an order name. Dates are normalized
// to YYYY-MM-DD when they parse; a blank date stays blank.
func (s ExpectedOrders) ExpectedOrders(ctx context.Context) ([]verification.Expected, error) {
	rows, err := s.book.rows(ctx)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	cols := detectColumns(rows[0])
	if _, ok := cols["order"]; !ok {
		return nil, nil
	}

	expected := make([]verification.Expected, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cols.cell(row, "order")
		if name == "" {
			continue
		}
		expected = append(expected, verification.Expected{
			OrderDate:     normalizeDate(cols.cell(row, "date")),
			OrderName:     name,
			CustomerName:  cols.cell(row, "name"),
			CustomerPhone: cols.cell(row, "phone"),
			Address:       cols.cell(row, "address"),
			CODTotal:      cols.cell(row, "cod"),
			City:          cols.cell(row, "city"),
		})
	}
	return expected, nil
}

func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := kernel.ParseTimestamp(raw, nil)
	if err != nil {
		return raw
	}
	return kernel.FormatDate(t)
}
