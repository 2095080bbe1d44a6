package models

import (
	"time"

	dbtypes "github.com/crewcast/shootflow-backend/pkg/db/types"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	"github.com/crewcast/shootflow-backend/pkg/types"
	"github.com/google/uuid"
)

// ShootingRequest is the workflow aggregate root. Status is the single source
// of truth for what can happen next; every mutation goes through the requests
// service and bumps LockVersion so concurrent commands against the same id
// cannot both apply.
type ShootingRequest struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ProjectTitle      string              `gorm:"column:project_title;not null"`
	MainLocation      string              `gorm:"column:main_location;not null"`
	ShootingDate      time.Time           `gorm:"column:shooting_date;not null"`
	NumberOfCameramen int                 `gorm:"column:number_of_cameramen;not null"`
	Notes             *string             `gorm:"column:notes"`
	InitiatorID       uuid.UUID           `gorm:"column:initiator_id;type:uuid;not null"`
	ReporterID        uuid.UUID           `gorm:"column:reporter_id;type:uuid;not null;index"`
	Status            enums.RequestStatus `gorm:"column:status;type:text;not null;default:'draft';index"`
	DriverID          *uuid.UUID          `gorm:"column:driver_id;type:uuid;index"`
	AssignedEquipment dbtypes.UUIDArray   `gorm:"column:assigned_equipment;not null;default:'{}'"`
	TripStatus        *enums.TripStatus   `gorm:"column:trip_status;type:text"`
	CurrentLocation   *types.GeoPoint     `gorm:"column:current_location;type:jsonb;serializer:json"`
	LockVersion       int                 `gorm:"column:lock_version;not null;default:0"`
	ExtraLocations    []ExtraLocation     `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
