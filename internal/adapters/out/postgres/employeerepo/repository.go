// Package employeerepo persists the staff journal in "employee_logs".
package employeerepo

import (
	"context"
	"time"

	"driverdesk/internal/core/domain/model/employee"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LogEntryDTO struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time        `gorm:"not null;index"`
	Employee  string           `gorm:"type:text;not null"`
	OrderName string           `gorm:"type:text"`
	Amount    *decimal.Decimal `gorm:"type:numeric(12,2)"`
}

func (LogEntryDTO) TableName() string {
	return "employee_logs"
}

// GormEmployeeLogRepository implements ports.EmployeeLogRepository using GORM.
type GormEmployeeLogRepository struct {
	db *gorm.DB
}

func NewGormEmployeeLogRepository(db *gorm.DB) *GormEmployeeLogRepository {
	return &GormEmployeeLogRepository{db: db}
}

func (r *GormEmployeeLogRepository) Add(ctx context.Context, entry *employee.LogEntry) error {
	dto := LogEntryDTO{
		Timestamp: entry.Timestamp,
		Employee:  entry.Employee,
		OrderName: entry.Order,
		Amount:    entry.Amount,
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	entry.ID = dto.ID
	return nil
}

func (r *GormEmployeeLogRepository) List(ctx context.Context) ([]employee.LogEntry, error) {
	var dtos []LogEntryDTO
	if err := r.db.WithContext(ctx).Order("timestamp DESC, id DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]employee.LogEntry, 0, len(dtos))
	for _, dto := range dtos {
		entries = append(entries, employee.LogEntry{
			ID:        dto.ID,
			Timestamp: dto.Timestamp,
			Employee:  dto.Employee,
			Order:     dto.OrderName,
			Amount:    dto.Amount,
		})
	}
	return entries, nil
}
