package queries

import (
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderItem is an order as shown to drivers.
type OrderItem struct {
	Timestamp      string          `json:"timestamp"`
	OrderName      string          `json:"orderName"`
	CustomerName   string          `json:"customerName"`
	CustomerPhone  string          `json:"customerPhone"`
	Address        string          `json:"address"`
	Tags           string          `json:"tags"`
	DeliveryStatus string          `json:"deliveryStatus"`
	Notes          string          `json:"notes"`
	DriverNotes    string          `json:"driverNotes"`
	ScheduledTime  string          `json:"scheduledTime"`
	ScanDate       string          `json:"scanDate"`
	CashAmount     decimal.Decimal `json:"cashAmount"`
	DriverFee      decimal.Decimal `json:"driverFee"`
	PayoutID       *string         `json:"payoutId"`
	StatusLog      string          `json:"statusLog"`
	CommLog        string          `json:"commLog"`
	FollowLog      string          `json:"followLog"`
	ReturnPending  bool            `json:"returnPending"`
	Urgent         bool            `json:"urgent"`
}

func newOrderItem(o *order.Order, urgent bool) OrderItem {
	c := o.Customer()
	var payoutID *string
	if id, ok := o.PayoutID(); ok {
		payoutID = &id
	}
	return OrderItem{
		Timestamp:      kernel.FormatTimestamp(o.ScannedAt()),
		OrderName:      o.Name(),
		CustomerName:   c.Name,
		CustomerPhone:  c.Phone,
		Address:        c.Address,
		Tags:           o.Tags(),
		DeliveryStatus: o.DisplayStatus(),
		Notes:          o.Notes(),
		DriverNotes:    o.DriverNotes(),
		ScheduledTime:  o.ScheduledTime(),
		ScanDate:       o.ScanDate(),
		CashAmount:     o.CashAmount(),
		DriverFee:      o.DriverFee(),
		PayoutID:       payoutID,
		StatusLog:      o.StatusLog().String(),
		CommLog:        o.CommLog(),
		FollowLog:      o.FollowLog(),
		ReturnPending:  o.ReturnPending(),
		Urgent:         urgent,
	}
}
