// Package driverrepo persists the provisioned drivers in the "drivers" table.
package driverrepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DriverDTO struct {
	ID        string    `gorm:"type:text;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

func (r *GormDriverRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DriverDTO{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormDriverRepository) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&DriverDTO{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}

// Provision inserts the ids that are not stored yet.
func (r *GormDriverRepository) Provision(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	now := time.Now().UTC()
	dtos := make([]DriverDTO, 0, len(ids))
	for _, id := range ids {
		dtos = append(dtos, DriverDTO{ID: id, CreatedAt: now})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dtos).Error
}
