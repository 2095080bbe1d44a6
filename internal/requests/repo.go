package requests

import (
	"context"

	"github.com/crewcast/shootflow-backend/internal/repo"
	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	repo.Base
}

// NewRepository builds a requests repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, req *models.ShootingRequest) (*models.ShootingRequest, error) {
	if err := r.DB(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShootingRequest, error) {
	var req models.ShootingRequest
	err := r.DB(ctx).
		Preload("ExtraLocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// guardedColumns are every field a command may legally mutate, plus the lock
// column itself. Explicit selection forces GORM to write zero values too.
var guardedColumns = []string{
	"project_title", "main_location", "shooting_date", "number_of_cameramen",
	"notes", "reporter_id", "status", "driver_id", "assigned_equipment",
	"trip_status", "current_location", "lock_version", "updated_at",
}

func (r *repository) UpdateGuarded(ctx context.Context, req *models.ShootingRequest) error {
	next := *req
	next.LockVersion = req.LockVersion + 1

	res := r.DB(ctx).
		Model(&models.ShootingRequest{}).
		Where("id = ? AND lock_version = ?", req.ID, req.LockVersion).
		Select(guardedColumns).
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	req.LockVersion = next.LockVersion
	return nil
}

func (r *repository) CreateExtraLocation(ctx context.Context, loc *models.ExtraLocation) error {
	return r.DB(ctx).Create(loc).Error
}

func (r *repository) ApproveExtraLocation(ctx context.Context, requestID, locationID uuid.UUID) error {
	res := r.DB(ctx).
		Model(&models.ExtraLocation{}).
		Where("id = ? AND request_id = ?", locationID, requestID).
		Update("approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountExtraLocations(ctx context.Context, requestID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.ExtraLocation{}).
		Where("request_id = ?", requestID).
		Count(&count).Error
	return count, err
}

func (r *repository) List(ctx context.Context, filter ListFilter, params pagination.Params) (*RequestPage, error) {
	if filter.MatchNone {
		return &RequestPage{Items: []RequestView{}}, nil
	}

	query := r.DB(ctx).
		Model(&models.ShootingRequest{}).
		Preload("ExtraLocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}
	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.InitiatorID != nil {
		query = query.Where("initiator_id = ?", *filter.InitiatorID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.ShootingRequest
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	// The operator filter compares a user id against equipment ids; it is kept
	// in-memory both for portability and because it can only ever match when a
	// user id collides with an equipment id.
	if filter.EquipmentMemberID != nil {
		filtered := rows[:0]
		for _, row := range rows {
			if row.AssignedEquipment.Contains(*filter.EquipmentMemberID) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	page := &RequestPage{Items: make([]RequestView, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &cursor
	}
	for i := range rows {
		page.Items = append(page.Items, *NewRequestView(&rows[i]))
	}
	return page, nil
}
