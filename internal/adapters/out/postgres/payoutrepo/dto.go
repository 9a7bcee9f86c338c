// Package payoutrepo persists payout batches in the "payouts" table. The member
// order names are a PostgreSQL text array.
package payoutrepo

import (
	"time"

	"driverdesk/internal/core/domain/model/payout"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PayoutDTO is the row of one payout. (driver_id, payout_id) is unique.
type PayoutDTO struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	DriverID    string          `gorm:"type:text;not null;uniqueIndex:uniq_driver_payout,priority:1"`
	PayoutID    string          `gorm:"type:text;not null;uniqueIndex:uniq_driver_payout,priority:2"`
	DateCreated time.Time       `gorm:"not null"`
	Orders      pq.StringArray  `gorm:"type:text[];not null;default:'{}'"`
	TotalCash   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalFees   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalPayout decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status      string          `gorm:"type:text;not null"`
	DatePaid    *time.Time
}

func (PayoutDTO) TableName() string {
	return "payouts"
}

func fromDomain(p *payout.Payout) PayoutDTO {
	s := p.Snapshot()
	orders := pq.StringArray(s.Orders)
	if orders == nil {
		orders = pq.StringArray{}
	}
	return PayoutDTO{
		ID:          s.ID,
		DriverID:    s.DriverID,
		PayoutID:    s.PayoutID,
		DateCreated: s.CreatedAt,
		Orders:      orders,
		TotalCash:   s.TotalCash,
		TotalFees:   s.TotalFees,
		TotalPayout: s.TotalPayout,
		Status:      string(s.Status),
		DatePaid:    s.PaidAt,
	}
}

func toDomain(dto PayoutDTO) (*payout.Payout, error) {
	return payout.RestorePayout(payout.Snapshot{
		ID:          dto.ID,
		DriverID:    dto.DriverID,
		PayoutID:    dto.PayoutID,
		CreatedAt:   dto.DateCreated,
		Orders:      dto.Orders,
		TotalCash:   dto.TotalCash,
		TotalFees:   dto.TotalFees,
		TotalPayout: dto.TotalPayout,
		Status:      payout.Status(dto.Status),
		PaidAt:      dto.DatePaid,
	})
}
