package reservation

import (
	"context"

	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// activeDriverStatuses are the states during which a bound driver is committed
// to a request. From trip_returned onward the remaining steps are custodian and
// reporter work, so the driver can take the next job.
var activeDriverStatuses = []enums.RequestStatus{
	enums.RequestStatusAdminApproved,
	enums.RequestStatusEquipmentAssigned,
	enums.RequestStatusTripStarted,
}

// BindDriver verifies the candidate exists in the directory with the Driver
// position and is not committed to another active request. Must run inside the
// same transaction that persists the binding.
func BindDriver(ctx context.Context, tx *gorm.DB, driverID uuid.UUID) error {
	if driverID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}

	var driver models.User
	err := tx.WithContext(ctx).Where("id = ?", driverID).First(&driver).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "driver not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver")
	}
	if driver.Position != enums.PositionDriver {
		return pkgerrors.New(pkgerrors.CodeValidation, "user is not a driver").
			WithDetails(map[string]any{"position": driver.Position.String()})
	}

	var committed int64
	err = tx.WithContext(ctx).Model(&models.ShootingRequest{}).
		Where("driver_id = ? AND status IN ?", driverID, activeDriverStatuses).
		Count(&committed).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check driver commitments")
	}
	if committed > 0 {
		return pkgerrors.New(pkgerrors.CodeResourceUnavailable, "driver already committed to another request").
			WithDetails(map[string]any{"driver_id": driverID.String()})
	}
	return nil
}

// ReserveEquipment draws the listed items from the pool, flipping each to
// assigned. All-or-nothing: a single unavailable item fails the whole draw and
// the enclosing transaction rolls the rest back.
func ReserveEquipment(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one equipment id required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "equipment id required")
		}
		if _, dup := seen[id]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate equipment id").
				WithDetails(map[string]any{"equipment_id": id.String()})
		}
		seen[id] = struct{}{}
	}

	res := tx.WithContext(ctx).Model(&models.EquipmentItem{}).
		Where("id IN ? AND status = ?", ids, enums.EquipmentStatusAvailable).
		Update("status", enums.EquipmentStatusAssigned)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve equipment")
	}
	if res.RowsAffected != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeResourceUnavailable, "equipment not available").
			WithDetails(map[string]any{
				"requested": len(ids),
				"available": res.RowsAffected,
			})
	}
	return nil
}

// ReleaseEquipment returns previously reserved items to the pool when the
// custodian confirms their return.
func ReleaseEquipment(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	res := tx.WithContext(ctx).Model(&models.EquipmentItem{}).
		Where("id IN ? AND status = ?", ids, enums.EquipmentStatusAssigned).
		Update("status", enums.EquipmentStatusAvailable)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release equipment")
	}
	if res.RowsAffected != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeDependency, "equipment pool out of sync with request").
			WithDetails(map[string]any{
				"expected": len(ids),
				"released": res.RowsAffected,
			})
	}
	return nil
}
