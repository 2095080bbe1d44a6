package controllers

import (
	"net/http"

	"github.com/crewcast/shootflow-backend/api/responses"
	"github.com/crewcast/shootflow-backend/api/validators"
	"github.com/crewcast/shootflow-backend/internal/directory"
	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/crewcast/shootflow-backend/pkg/logger"
	"github.com/google/uuid"
)

type userView struct {
	ID       uuid.UUID      `json:"id"`
	FullName string         `json:"full_name"`
	Position enums.Position `json:"position"`
	IsActive bool           `json:"is_active"`
}

type driverView struct {
	userView
	Vehicle *vehicleView `json:"vehicle,omitempty"`
}

type vehicleView struct {
	ID          uuid.UUID `json:"id"`
	PlateNumber string    `json:"plate_number"`
	Model       string    `json:"model"`
}

type equipmentView struct {
	ID       uuid.UUID             `json:"id"`
	Name     string                `json:"name"`
	Category string                `json:"category"`
	Status   enums.EquipmentStatus `json:"status"`
}

// ListDrivers returns every driver with their paired vehicle, for the
// approval screen's driver picker.
func ListDrivers(dir directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drivers, err := dir.ListDrivers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]driverView, 0, len(drivers))
		for _, d := range drivers {
			view := driverView{userView: newUserView(d)}
			vehicle, err := dir.GetVehicleByDriver(r.Context(), d.ID)
			if err != nil {
				if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			} else {
				view.Vehicle = &vehicleView{ID: vehicle.ID, PlateNumber: vehicle.PlateNumber, Model: vehicle.Model}
			}
			views = append(views, view)
		}
		responses.WriteSuccess(w, views)
	}
}

// GetDirectoryUser returns a single directory entry.
func GetDirectoryUser(dir directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := dir.GetUser(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newUserView(*user))
	}
}

// ListAvailableEquipment returns the items a custodian can currently assign.
func ListAvailableEquipment(dir directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := dir.ListAvailableEquipment(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]equipmentView, 0, len(items))
		for _, item := range items {
			views = append(views, equipmentView{ID: item.ID, Name: item.Name, Category: item.Category, Status: item.Status})
		}
		responses.WriteSuccess(w, views)
	}
}

func newUserView(u models.User) userView {
	return userView{ID: u.ID, FullName: u.FullName, Position: u.Position, IsActive: u.IsActive}
}
