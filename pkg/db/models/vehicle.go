package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is the directory record pairing a vehicle with its single driver.
type Vehicle struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlateNumber string    `gorm:"column:plate_number;type:text;not null;uniqueIndex"`
	Model       string    `gorm:"column:model;not null"`
	DriverID    uuid.UUID `gorm:"column:driver_id;type:uuid;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
