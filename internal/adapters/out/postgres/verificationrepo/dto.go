// Package verificationrepo persists expected-order rows in "verification_orders".
package verificationrepo

import (
	"time"

	"driverdesk/internal/core/domain/model/verification"
)

type VerificationDTO struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	OrderDate     string  `gorm:"type:varchar(10);not null;index"`
	OrderName     string  `gorm:"type:text;not null;index"`
	CustomerName  string  `gorm:"type:text"`
	CustomerPhone string  `gorm:"type:text"`
	Address       string  `gorm:"type:text"`
	CODTotal      string  `gorm:"column:cod_total;type:text"`
	City          string  `gorm:"type:text"`
	DriverID      *string `gorm:"type:text"`
	ScanTime      *time.Time
}

func (VerificationDTO) TableName() string {
	return "verification_orders"
}

func fromDomain(r *verification.Row) VerificationDTO {
	e := r.Expected()
	dto := VerificationDTO{
		ID:            r.ID(),
		OrderDate:     e.OrderDate,
		OrderName:     e.OrderName,
		CustomerName:  e.CustomerName,
		CustomerPhone: e.CustomerPhone,
		Address:       e.Address,
		CODTotal:      e.CODTotal,
		City:          e.City,
	}
	if id := r.DriverID(); id != "" {
		dto.DriverID = &id
	}
	if at, ok := r.ScanTime(); ok {
		dto.ScanTime = &at
	}
	return dto
}

func toDomain(dto VerificationDTO) *verification.Row {
	driverID := ""
	if dto.DriverID != nil {
		driverID = *dto.DriverID
	}
	return verification.RestoreRow(dto.ID, verification.Expected{
		OrderDate:     dto.OrderDate,
		OrderName:     dto.OrderName,
		CustomerName:  dto.CustomerName,
		CustomerPhone: dto.CustomerPhone,
		Address:       dto.Address,
		CODTotal:      dto.CODTotal,
		City:          dto.City,
	}, driverID, dto.ScanTime)
}

func toDomainList(dtos []VerificationDTO) []*verification.Row {
	rows := make([]*verification.Row, 0, len(dtos))
	for _, dto := range dtos {
		rows = append(rows, toDomain(dto))
	}
	return rows
}
