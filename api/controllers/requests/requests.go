package requests

import (
	"net/http"
	"time"

	"github.com/crewcast/shootflow-backend/api/middleware"
	"github.com/crewcast/shootflow-backend/api/responses"
	"github.com/crewcast/shootflow-backend/api/validators"
	workflow "github.com/crewcast/shootflow-backend/internal/requests"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/crewcast/shootflow-backend/pkg/logger"
	"github.com/crewcast/shootflow-backend/pkg/pagination"
	"github.com/crewcast/shootflow-backend/pkg/types"
	"github.com/google/uuid"
)

type createRequestBody struct {
	ProjectTitle      string    `json:"project_title" validate:"required"`
	MainLocation      string    `json:"main_location" validate:"required"`
	ShootingDate      time.Time `json:"shooting_date" validate:"required"`
	NumberOfCameramen int       `json:"number_of_cameramen" validate:"required,min=1"`
	Notes             *string   `json:"notes,omitempty"`
	InitiatorID       uuid.UUID `json:"initiator_id" validate:"required"`
}

type updateDraftBody struct {
	ProjectTitle      *string    `json:"project_title,omitempty"`
	MainLocation      *string    `json:"main_location,omitempty"`
	ShootingDate      *time.Time `json:"shooting_date,omitempty"`
	NumberOfCameramen *int       `json:"number_of_cameramen,omitempty" validate:"omitempty,min=1"`
	Notes             *string    `json:"notes,omitempty"`
}

type approveBody struct {
	DriverID uuid.UUID `json:"driver_id" validate:"required"`
}

type assignEquipmentBody struct {
	EquipmentIDs []uuid.UUID `json:"equipment_ids" validate:"required,min=1"`
}

type locationBody struct {
	Location *types.GeoPoint `json:"location,omitempty"`
}

type tripProgressBody struct {
	TripStatus string          `json:"trip_status" validate:"required"`
	Location   *types.GeoPoint `json:"location,omitempty"`
}

type extraLocationBody struct {
	Name string `json:"name" validate:"required"`
}

type changeReporterBody struct {
	ReporterID uuid.UUID `json:"reporter_id" validate:"required"`
}

func actorFrom(r *http.Request) (workflow.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return workflow.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor missing from context")
	}
	return actor, nil
}

// Create opens a new draft owned by the calling reporter.
func Create(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body createRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.CreateDraft(r.Context(), actor, workflow.CreateDraftInput{
			ProjectTitle:      body.ProjectTitle,
			MainLocation:      body.MainLocation,
			ShootingDate:      body.ShootingDate,
			NumberOfCameramen: body.NumberOfCameramen,
			Notes:             body.Notes,
			InitiatorID:       body.InitiatorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// UpdateDraft patches descriptive fields while the request is still a draft.
func UpdateDraft(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateDraftBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateDraft(r.Context(), actor, requestID, workflow.UpdateDraftInput{
			ProjectTitle:      body.ProjectTitle,
			MainLocation:      body.MainLocation,
			ShootingDate:      body.ShootingDate,
			NumberOfCameramen: body.NumberOfCameramen,
			Notes:             body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// Submit moves a draft into the approval queue.
func Submit(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return command(logg, func(r *http.Request, actor workflow.Actor, id uuid.UUID) (*workflow.RequestView, error) {
		return svc.Submit(r.Context(), actor, id)
	})
}

// Approve accepts a submitted request and binds the chosen driver.
func Approve(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body approveBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ApproveAndAssignDriver(r.Context(), actor, requestID, body.DriverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// Reject declines a submitted request.
func Reject(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return command(logg, func(r *http.Request, actor workflow.Actor, id uuid.UUID) (*workflow.RequestView, error) {
		return svc.Reject(r.Context(), actor, id)
	})
}

// AssignEquipment reserves the listed items for the request.
func AssignEquipment(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body assignEquipmentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AssignEquipment(r.Context(), actor, requestID, body.EquipmentIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// StartTrip begins the shoot trip, optionally recording the departure point.
func StartTrip(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body locationBody
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		view, err := svc.StartTrip(r.Context(), actor, requestID, body.Location)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateTrip advances the nested trip sub-state.
func UpdateTrip(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body tripProgressBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		next, err := enums.ParseTripStatus(body.TripStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown trip status").WithDetails(map[string]any{"trip_status": body.TripStatus}))
			return
		}

		view, err := svc.UpdateTripStatus(r.Context(), actor, requestID, workflow.TripProgressInput{
			Next:     next,
			Location: body.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CompleteTrip closes the trip once the crew is back.
func CompleteTrip(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return command(logg, func(r *http.Request, actor workflow.Actor, id uuid.UUID) (*workflow.RequestView, error) {
		return svc.CompleteTrip(r.Context(), actor, id)
	})
}

// ConfirmEquipmentReturn releases the reserved items back to the pool.
func ConfirmEquipmentReturn(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return command(logg, func(r *http.Request, actor workflow.Actor, id uuid.UUID) (*workflow.RequestView, error) {
		return svc.ConfirmEquipmentReturn(r.Context(), actor, id)
	})
}

// Finalize closes the request after the owner signs off.
func Finalize(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return command(logg, func(r *http.Request, actor workflow.Actor, id uuid.UUID) (*workflow.RequestView, error) {
		return svc.Finalize(r.Context(), actor, id)
	})
}

// AddExtraLocation appends a shoot site to the request.
func AddExtraLocation(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body extraLocationBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddExtraLocation(r.Context(), actor, requestID, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ApproveExtraLocation flips one appended site to approved.
func ApproveExtraLocation(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		locationID, err := validators.ParseUUIDParam(r, "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ApproveExtraLocation(r.Context(), actor, requestID, locationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ChangeReporter reassigns the request to a new owner.
func ChangeReporter(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body changeReporterBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ChangeReporter(r.Context(), actor, requestID, body.ReporterID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// Detail returns a single request with its extra locations.
func Detail(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := validators.ParseUUIDParam(r, "requestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.GetByID(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// List returns all requests, optionally narrowed by status.
func List(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := validators.ParseStatusQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListAll(r.Context(), status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListMine returns the actor's personal queue.
func ListMine(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return list(logg, func(r *http.Request, actor workflow.Actor, params pagination.Params) (*workflow.RequestPage, error) {
		return svc.ListMine(r.Context(), actor, params)
	})
}

// ListPending returns the requests waiting on the actor to act.
func ListPending(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return list(logg, func(r *http.Request, actor workflow.Actor, params pagination.Params) (*workflow.RequestPage, error) {
		return svc.ListPendingForMe(r.Context(), actor, params)
	})
}

func actorAndID(r *http.Request) (workflow.Actor, uuid.UUID, error) {
	actor, err := actorFrom(r)
	if err != nil {
		return workflow.Actor{}, uuid.Nil, err
	}
	requestID, err := validators.ParseUUIDParam(r, "requestID")
	if err != nil {
		return workflow.Actor{}, uuid.Nil, err
	}
	return actor, requestID, nil
}

// command wraps the body-less lifecycle handlers.
func command(logg *logger.Logger, run func(*http.Request, workflow.Actor, uuid.UUID) (*workflow.RequestView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, requestID, err := actorAndID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := run(r, actor, requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func list(logg *logger.Logger, run func(*http.Request, workflow.Actor, pagination.Params) (*workflow.RequestPage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := run(r, actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
