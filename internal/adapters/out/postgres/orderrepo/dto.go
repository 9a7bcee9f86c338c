// Package orderrepo persists order aggregates in the "orders" table.
// The status is stored as its label so that the read-model SQL can compare it
// with literal values.
package orderrepo

import (
	"time"

	"driverdesk/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is the row of one order. (driver_id, order_name) is unique.
type OrderDTO struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	DriverID      string `gorm:"type:text;not null;uniqueIndex:uniq_driver_order,priority:1"`
	OrderName     string `gorm:"type:text;not null;uniqueIndex:uniq_driver_order,priority:2;index:idx_orders_name"`
	CustomerName  string `gorm:"type:text"`
	CustomerPhone string `gorm:"type:text"`
	Address       string `gorm:"type:text"`
	Tags          string `gorm:"type:text"`
	Fulfillment   string `gorm:"type:text"`
	OrderStatus   string `gorm:"type:text"`
	Store         string `gorm:"type:text"`

	ScanDate  string    `gorm:"type:varchar(10);index"`
	Timestamp time.Time `gorm:"not null"`

	DeliveryStatus string          `gorm:"type:text;not null;index"`
	Notes          string          `gorm:"type:text"`
	DriverNotes    string          `gorm:"type:text"`
	ScheduledTime  string          `gorm:"type:text"`
	CashAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DriverFee      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PayoutID       *string         `gorm:"type:text;index"`
	StatusLog      string          `gorm:"type:text"`
	CommLog        string          `gorm:"type:text"`
	FollowLog      string          `gorm:"type:text"`

	ReturnPending bool   `gorm:"not null;default:false"`
	ReturnAgent   string `gorm:"type:text"`
	ReturnTime    *time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	return OrderDTO{
		ID:             s.ID,
		DriverID:       s.DriverID,
		OrderName:      s.Name,
		CustomerName:   s.Details.Customer.Name,
		CustomerPhone:  s.Details.Customer.Phone,
		Address:        s.Details.Customer.Address,
		Tags:           s.Details.Tags,
		Fulfillment:    s.Details.Fulfillment,
		OrderStatus:    s.Details.OrderStatus,
		Store:          s.Details.Store,
		ScanDate:       s.ScanDate,
		Timestamp:      s.ScannedAt,
		DeliveryStatus: s.Status.String(),
		Notes:          s.Notes,
		DriverNotes:    s.DriverNotes,
		ScheduledTime:  s.ScheduledTime,
		CashAmount:     s.CashAmount,
		DriverFee:      s.DriverFee,
		PayoutID:       s.PayoutID,
		StatusLog:      s.StatusLog,
		CommLog:        s.CommLog,
		FollowLog:      s.FollowLog,
		ReturnPending:  s.ReturnPending,
		ReturnAgent:    s.ReturnAgent,
		ReturnTime:     s.ReturnTime,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:       dto.ID,
		DriverID: dto.DriverID,
		Name:     dto.OrderName,
		Details: order.Details{
			Customer: order.Customer{
				Name:    dto.CustomerName,
				Phone:   dto.CustomerPhone,
				Address: dto.Address,
			},
			Tags:        dto.Tags,
			Fulfillment: dto.Fulfillment,
			OrderStatus: dto.OrderStatus,
			Store:       dto.Store,
		},
		ScanDate:      dto.ScanDate,
		ScannedAt:     dto.Timestamp,
		Status:        status,
		Notes:         dto.Notes,
		DriverNotes:   dto.DriverNotes,
		ScheduledTime: dto.ScheduledTime,
		CashAmount:    dto.CashAmount,
		DriverFee:     dto.DriverFee,
		PayoutID:      dto.PayoutID,
		StatusLog:     dto.StatusLog,
		CommLog:       dto.CommLog,
		FollowLog:     dto.FollowLog,
		ReturnPending: dto.ReturnPending,
		ReturnAgent:   dto.ReturnAgent,
		ReturnTime:    dto.ReturnTime,
	})
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
