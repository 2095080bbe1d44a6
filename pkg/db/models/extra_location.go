package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtraLocation is an additional shoot site appended to a request. Entries are
// append-only and Approved only ever flips false to true.
type ExtraLocation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID uuid.UUID `gorm:"column:request_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Approved  bool      `gorm:"column:approved;not null;default:false"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
