package models

import (
	"time"

	"github.com/crewcast/shootflow-backend/pkg/enums"
	"github.com/google/uuid"
)

// User is a read-only directory entry. The engine never mutates users; they are
// seeded by the organization directory this service consumes.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FullName  string         `gorm:"column:full_name;not null"`
	Email     string         `gorm:"type:text;not null;uniqueIndex"`
	Phone     *string        `gorm:"column:phone"`
	Position  enums.Position `gorm:"column:position;type:text;not null"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
