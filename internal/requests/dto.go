package requests

import (
	"time"

	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	"github.com/crewcast/shootflow-backend/pkg/types"
	"github.com/google/uuid"
)

// ExtraLocationView is the API shape of an appended shoot site.
type ExtraLocationView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Approved bool      `json:"approved"`
	Position int       `json:"position"`
}

// RequestView is the API shape of a shooting request. EquipmentAssigned and
// EquipmentReturned are derived from the status on every read; they are not
// stored, so they can never drift from it.
type RequestView struct {
	ID                uuid.UUID           `json:"id"`
	ProjectTitle      string              `json:"project_title"`
	MainLocation      string              `json:"main_location"`
	ShootingDate      time.Time           `json:"shooting_date"`
	NumberOfCameramen int                 `json:"number_of_cameramen"`
	Notes             *string             `json:"notes,omitempty"`
	InitiatorID       uuid.UUID           `json:"initiator_id"`
	ReporterID        uuid.UUID           `json:"reporter_id"`
	Status            enums.RequestStatus `json:"status"`
	DriverID          *uuid.UUID          `json:"driver_id,omitempty"`
	AssignedEquipment []uuid.UUID         `json:"assigned_equipment"`
	EquipmentAssigned bool                `json:"equipment_assigned"`
	EquipmentReturned bool                `json:"equipment_returned"`
	TripStatus        *enums.TripStatus   `json:"trip_status,omitempty"`
	CurrentLocation   *types.GeoPoint     `json:"current_location,omitempty"`
	ExtraLocations    []ExtraLocationView `json:"extra_locations"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// RequestPage is one page of list results with an opaque continuation cursor.
type RequestPage struct {
	Items      []RequestView `json:"items"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// NewRequestView maps the persistence model to its API shape.
func NewRequestView(m *models.ShootingRequest) *RequestView {
	view := &RequestView{
		ID:                m.ID,
		ProjectTitle:      m.ProjectTitle,
		MainLocation:      m.MainLocation,
		ShootingDate:      m.ShootingDate,
		NumberOfCameramen: m.NumberOfCameramen,
		Notes:             m.Notes,
		InitiatorID:       m.InitiatorID,
		ReporterID:        m.ReporterID,
		Status:            m.Status,
		DriverID:          m.DriverID,
		AssignedEquipment: append([]uuid.UUID{}, m.AssignedEquipment...),
		EquipmentAssigned: m.Status.HasReached(enums.RequestStatusEquipmentAssigned),
		EquipmentReturned: m.Status.HasReached(enums.RequestStatusEquipmentReturned),
		TripStatus:        m.TripStatus,
		CurrentLocation:   m.CurrentLocation,
		ExtraLocations:    make([]ExtraLocationView, 0, len(m.ExtraLocations)),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	for _, loc := range m.ExtraLocations {
		view.ExtraLocations = append(view.ExtraLocations, ExtraLocationView{
			ID:       loc.ID,
			Name:     loc.Name,
			Approved: loc.Approved,
			Position: loc.Position,
		})
	}
	return view
}
