package spreadsheet

import (
	"context"

	"driverdesk/internal/core/domain/model/order"
)

// CustomerSheet implements ports.SheetLookup.
type CustomerSheet struct {
	book Workbook
}

func NewCustomerSheet(book Workbook) CustomerSheet {
	return CustomerSheet{book: book}
}

// LookupCustomer finds the first row of orderName. A leading "#" is ignored on
// both sides. A sheet without an order column finds nothing.
func (s CustomerSheet) LookupCustomer(ctx context.Context, orderName string) (order.Customer, bool, error) {
	rows, err := s.book.rows(ctx)
	if err != nil || len(rows) == 0 {
		return order.Customer{}, false, err
	}

	cols := detectColumns(rows[0])
	if _, ok := cols["order"]; !ok {
		return order.Customer{}, false, nil
	}

	for _, row := range rows[1:] {
		if !sameOrder(cols.cell(row, "order"), orderName) {
			continue
		}
		return order.Customer{
			Name:    cols.cell(row, "name"),
			Phone:   cols.cell(row, "phone"),
			Address: cols.cell(row, "address"),
		}, true, nil
	}
	return order.Customer{}, false, nil
}
