package directory

import (
	"context"
	"fmt"

	"github.com/crewcast/shootflow-backend/pkg/db"
	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service is the read-only lookup surface the workflow engine and the API
// consume for users, drivers, vehicles and equipment.
type Service interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUsersByPosition(ctx context.Context, position enums.Position) ([]models.User, error)
	ListDrivers(ctx context.Context) ([]models.User, error)
	GetVehicleByDriver(ctx context.Context, driverID uuid.UUID) (*models.Vehicle, error)
	GetEquipment(ctx context.Context, id uuid.UUID) (*models.EquipmentItem, error)
	ListAvailableEquipment(ctx context.Context) ([]models.EquipmentItem, error)
}

type service struct {
	repo Repository
}

// NewService builds a directory service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindUser(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) GetUsersByPosition(ctx context.Context, position enums.Position) ([]models.User, error) {
	if !position.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown position").
			WithDetails(map[string]any{"position": position.String()})
	}
	users, err := s.repo.FindUsersByPosition(ctx, position)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users by position")
	}
	return users, nil
}

func (s *service) ListDrivers(ctx context.Context) ([]models.User, error) {
	return s.GetUsersByPosition(ctx, enums.PositionDriver)
}

func (s *service) GetVehicleByDriver(ctx context.Context, driverID uuid.UUID) (*models.Vehicle, error) {
	if driverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	vehicle, err := s.repo.FindVehicleByDriver(ctx, driverID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no vehicle paired with driver")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return vehicle, nil
}

func (s *service) GetEquipment(ctx context.Context, id uuid.UUID) (*models.EquipmentItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
	}
	item, err := s.repo.FindEquipment(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load equipment")
	}
	return item, nil
}

func (s *service) ListAvailableEquipment(ctx context.Context) ([]models.EquipmentItem, error) {
	items, err := s.repo.FindAvailableEquipment(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available equipment")
	}
	return items, nil
}
