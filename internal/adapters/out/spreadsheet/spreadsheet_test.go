package spreadsheet_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"driverdesk/internal/adapters/out/spreadsheet"
	"driverdesk/internal/core/application/usecases/queries"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/model/verification"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeBook saves rows to the first sheet of a new workbook.
func writeBook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCustomerSheet_LookupIgnoresHash(t *testing.T) {
	path := writeBook(t, [][]any{
		{"Order Number", "Customer Name", "Customer Phone", "Address"},
		{"#1234", "Alice", "0611", "12 rue A"},
		{"5678", "Bob"},
	})
	sheet := spreadsheet.NewCustomerSheet(spreadsheet.NewWorkbook(path))

	c, ok, err := sheet.LookupCustomer(t.Context(), "1234")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, order.Customer{Name: "Alice", Phone: "0611", Address: "12 rue A"}, c)

	c, ok, err = sheet.LookupCustomer(t.Context(), "#5678")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bob", c.Name)
	assert.Empty(t, c.Phone)

	_, ok, err = sheet.LookupCustomer(t.Context(), "#9")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCustomerSheet_WithoutOrderColumn(t *testing.T) {
	path := writeBook(t, [][]any{{"Customer", "Phone"}, {"Alice", "0611"}})

	_, ok, err := spreadsheet.NewCustomerSheet(spreadsheet.NewWorkbook(path)).LookupCustomer(t.Context(), "#1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCustomerSheet_Unconfigured(t *testing.T) {
	_, _, err := spreadsheet.NewCustomerSheet(spreadsheet.NewWorkbook("")).LookupCustomer(t.Context(), "#1")
	assert.ErrorIs(t, err, spreadsheet.ErrNoSheet)

	_, _, err = spreadsheet.NewCustomerSheet(spreadsheet.NewWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))).
		LookupCustomer(t.Context(), "#1")
	assert.Error(t, err)
}

func TestExpectedOrders(t *testing.T) {
	path := writeBook(t, [][]any{
		{"Order Date", "Order Name", "Customer", "Telephone", "Adresse", "Wilaya", "COD Total"},
		{"2024-05-01 09:15", "#111", "Alice", "0611", "12 rue A", "Alger", "3500"},
		{"", "#112", "Bob"},
		{"2024-05-02", "", "Nobody"},
		{"soon", "#113"},
	})

	rows, err := spreadsheet.NewExpectedOrders(spreadsheet.NewWorkbook(path)).ExpectedOrders(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []verification.Expected{
		{
			OrderDate: "2024-05-01", OrderName: "#111", CustomerName: "Alice", CustomerPhone: "0611",
			Address: "12 rue A", City: "Alger", CODTotal: "3500",
		},
		{OrderName: "#112", CustomerName: "Bob"},
		{OrderDate: "soon", OrderName: "#113"},
	}, rows)
}

func TestExpectedOrders_MinimalHeader(t *testing.T) {
	path := writeBook(t, [][]any{{"Order", "Customer"}, {"#111", "Alice"}})

	rows, err := spreadsheet.NewExpectedOrders(spreadsheet.NewWorkbook(path)).ExpectedOrders(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []verification.Expected{{OrderName: "#111", CustomerName: "Alice"}}, rows)
}

func TestPayoutExport(t *testing.T) {
	payouts := []queries.PayoutView{
		{
			PayoutID:    "PO-20240501-1000",
			DateCreated: "2024-05-01 10:00:00",
			Orders:      []string{"#1", "#2"},
			TotalCash:   decimal.RequireFromString("300.50"),
			TotalFees:   decimal.NewFromInt(40),
			TotalPayout: decimal.RequireFromString("260.50"),
			Status:      "pending",
			OrderDetails: []queries.PayoutOrder{
				{Name: "#1", CashAmount: decimal.NewFromInt(100), DriverFee: decimal.NewFromInt(20)},
				{Name: "#2", CashAmount: decimal.RequireFromString("200.50"), DriverFee: decimal.NewFromInt(20)},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, spreadsheet.NewPayoutExport().WritePayouts(&buf, "d1", payouts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Payouts", "Orders"}, f.GetSheetList())

	rows, err := f.GetRows("Payouts")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Payout ID", rows[0][0])
	assert.Equal(t, []string{"PO-20240501-1000", "2024-05-01 10:00:00", "#1, #2", "300.5", "40", "260.5", "pending"}, rows[1])

	details, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, []string{"PO-20240501-1000", "#2", "200.5", "20"}, details[2])
}
