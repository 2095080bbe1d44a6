package requests

import (
	"context"
	"errors"

	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	"github.com/crewcast/shootflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrVersionConflict signals that a guarded update lost the optimistic-lock
// race: another command mutated the request between read and write.
var ErrVersionConflict = errors.New("request version conflict")

// ListFilter narrows list queries. Nil pointers mean "no constraint". When
// MatchNone is set the query returns no rows regardless of other fields.
type ListFilter struct {
	MatchNone         bool
	Status            *enums.RequestStatus
	Statuses          []enums.RequestStatus
	ReporterID        *uuid.UUID
	DriverID          *uuid.UUID
	InitiatorID       *uuid.UUID
	EquipmentMemberID *uuid.UUID
}

// Repository owns all shooting-request persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *models.ShootingRequest) (*models.ShootingRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShootingRequest, error)
	// UpdateGuarded persists all mutable fields, guarded by the lock_version
	// the request was read at. Returns ErrVersionConflict when the row moved.
	UpdateGuarded(ctx context.Context, req *models.ShootingRequest) error
	CreateExtraLocation(ctx context.Context, loc *models.ExtraLocation) error
	ApproveExtraLocation(ctx context.Context, requestID, locationID uuid.UUID) error
	CountExtraLocations(ctx context.Context, requestID uuid.UUID) (int64, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*RequestPage, error)
}
