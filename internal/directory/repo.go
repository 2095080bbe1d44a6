package directory

import (
	"context"

	"github.com/crewcast/shootflow-backend/internal/repo"
	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the reference directories. All lookups are read-only; the
// one exception is equipment status, which only the reservation package flips.
type Repository interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUsersByPosition(ctx context.Context, position enums.Position) ([]models.User, error)
	FindVehicleByDriver(ctx context.Context, driverID uuid.UUID) (*models.Vehicle, error)
	FindEquipment(ctx context.Context, id uuid.UUID) (*models.EquipmentItem, error)
	FindAvailableEquipment(ctx context.Context) ([]models.EquipmentItem, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a directory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUsersByPosition(ctx context.Context, position enums.Position) ([]models.User, error) {
	var users []models.User
	err := r.DB(ctx).
		Where("position = ? AND is_active = ?", position, true).
		Order("full_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) FindVehicleByDriver(ctx context.Context, driverID uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.DB(ctx).Where("driver_id = ?", driverID).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) FindEquipment(ctx context.Context, id uuid.UUID) (*models.EquipmentItem, error) {
	var item models.EquipmentItem
	if err := r.DB(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindAvailableEquipment(ctx context.Context) ([]models.EquipmentItem, error) {
	var items []models.EquipmentItem
	err := r.DB(ctx).
		Where("status = ?", enums.EquipmentStatusAvailable).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
