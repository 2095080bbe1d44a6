package models

import (
	"time"

	"github.com/crewcast/shootflow-backend/pkg/enums"
	"github.com/google/uuid"
)

// EquipmentItem is a pool resource. Status flips to assigned while a request
// holds the item and back to available when the custodian confirms its return.
type EquipmentItem struct {
	ID        uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name      string                `gorm:"column:name;not null"`
	Category  string                `gorm:"column:category;not null;default:''"`
	Status    enums.EquipmentStatus `gorm:"column:status;type:text;not null;default:'available'"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
