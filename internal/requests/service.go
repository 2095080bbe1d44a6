package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crewcast/shootflow-backend/internal/requests/reservation"
	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/crewcast/shootflow-backend/pkg/metrics"
	"github.com/crewcast/shootflow-backend/pkg/pagination"
	"github.com/crewcast/shootflow-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateDraftInput carries the descriptive fields set at creation.
type CreateDraftInput struct {
	ProjectTitle      string
	MainLocation      string
	ShootingDate      time.Time
	NumberOfCameramen int
	Notes             *string
	InitiatorID       uuid.UUID
}

// UpdateDraftInput patches descriptive fields while the request is still Draft.
type UpdateDraftInput struct {
	ProjectTitle      *string
	MainLocation      *string
	ShootingDate      *time.Time
	NumberOfCameramen *int
	Notes             *string
}

// TripProgressInput advances the nested trip sub-state.
type TripProgressInput struct {
	Next     enums.TripStatus
	Location *types.GeoPoint
}

// Service is the workflow engine's full command and query surface.
type Service interface {
	CreateDraft(ctx context.Context, actor Actor, input CreateDraftInput) (*RequestView, error)
	UpdateDraft(ctx context.Context, actor Actor, requestID uuid.UUID, input UpdateDraftInput) (*RequestView, error)
	Submit(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error)
	ApproveAndAssignDriver(ctx context.Context, actor Actor, requestID, driverID uuid.UUID) (*RequestView, error)
	Reject(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error)
	AssignEquipment(ctx context.Context, actor Actor, requestID uuid.UUID, equipmentIDs []uuid.UUID) (*RequestView, error)
	StartTrip(ctx context.Context, actor Actor, requestID uuid.UUID, location *types.GeoPoint) (*RequestView, error)
	UpdateTripStatus(ctx context.Context, actor Actor, requestID uuid.UUID, input TripProgressInput) (*RequestView, error)
	CompleteTrip(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error)
	ConfirmEquipmentReturn(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error)
	Finalize(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error)
	AddExtraLocation(ctx context.Context, actor Actor, requestID uuid.UUID, name string) (*RequestView, error)
	ApproveExtraLocation(ctx context.Context, actor Actor, requestID, locationID uuid.UUID) (*RequestView, error)
	ChangeReporter(ctx context.Context, actor Actor, requestID, newReporterID uuid.UUID) (*RequestView, error)

	GetByID(ctx context.Context, requestID uuid.UUID) (*RequestView, error)
	ListAll(ctx context.Context, statusFilter *enums.RequestStatus, params pagination.Params) (*RequestPage, error)
	ListMine(ctx context.Context, actor Actor, params pagination.Params) (*RequestPage, error)
	ListPendingForMe(ctx context.Context, actor Actor, params pagination.Params) (*RequestPage, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	workflow *metrics.WorkflowMetrics
}

// NewService builds the workflow service with the required dependencies.
// Metrics may be nil; recording is then a no-op.
func NewService(repo Repository, tx txRunner, workflow *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, workflow: workflow}, nil
}

func (s *service) CreateDraft(ctx context.Context, actor Actor, input CreateDraftInput) (*RequestView, error) {
	if actor.Role != enums.PositionReporter {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only reporters create requests")
	}
	if strings.TrimSpace(input.ProjectTitle) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project title required")
	}
	if strings.TrimSpace(input.MainLocation) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "main location required")
	}
	if input.ShootingDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shooting date required")
	}
	if input.NumberOfCameramen < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one cameraman required")
	}
	if input.InitiatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initiator id required")
	}

	req := &models.ShootingRequest{
		ID:                uuid.New(),
		ProjectTitle:      strings.TrimSpace(input.ProjectTitle),
		MainLocation:      strings.TrimSpace(input.MainLocation),
		ShootingDate:      input.ShootingDate,
		NumberOfCameramen: input.NumberOfCameramen,
		Notes:             input.Notes,
		InitiatorID:       input.InitiatorID,
		ReporterID:        actor.UserID,
		Status:            enums.RequestStatusDraft,
	}
	created, err := s.repo.Create(ctx, req)
	if err != nil {
		s.workflow.IncRejected("create_draft", string(pkgerrors.CodeDependency))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}
	s.workflow.IncAccepted("create_draft")
	return NewRequestView(created), nil
}

func (s *service) UpdateDraft(ctx context.Context, actor Actor, requestID uuid.UUID, input UpdateDraftInput) (*RequestView, error) {
	return s.mutate(ctx, "update_draft", requestID, func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
		if req.Status != enums.RequestStatusDraft {
			return invalidTransition(req, "", "descriptive fields editable only in draft")
		}
		if actor.Role != enums.PositionReporter || req.ReporterID != actor.UserID {
			return invalidTransition(req, "", "actor does not own the request")
		}
		if input.ProjectTitle != nil {
			if strings.TrimSpace(*input.ProjectTitle) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "project title required")
			}
			req.ProjectTitle = strings.TrimSpace(*input.ProjectTitle)
		}
		if input.MainLocation != nil {
			if strings.TrimSpace(*input.MainLocation) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "main location required")
			}
			req.MainLocation = strings.TrimSpace(*input.MainLocation)
		}
		if input.ShootingDate != nil {
			if input.ShootingDate.IsZero() {
				return pkgerrors.New(pkgerrors.CodeValidation, "shooting date required")
			}
			req.ShootingDate = *input.ShootingDate
		}
		if input.NumberOfCameramen != nil {
			if *input.NumberOfCameramen < 1 {
				return pkgerrors.New(pkgerrors.CodeValidation, "at least one cameraman required")
			}
			req.NumberOfCameramen = *input.NumberOfCameramen
		}
		if input.Notes != nil {
			req.Notes = input.Notes
		}
		return nil
	})
}

func (s *service) Submit(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error) {
	return s.transition(ctx, CommandSubmit, actor, requestID, nil)
}

func (s *service) ApproveAndAssignDriver(ctx context.Context, actor Actor, requestID, driverID uuid.UUID) (*RequestView, error) {
	return s.transition(ctx, CommandApproveAndAssignDriver, actor, requestID,
		func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
			if err := reservation.BindDriver(ctx, tx, driverID); err != nil {
				return err
			}
			req.DriverID = &driverID
			return nil
		})
}

func (s *service) Reject(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error) {
	return s.transition(ctx, CommandReject, actor, requestID, nil)
}

func (s *service) AssignEquipment(ctx context.Context, actor Actor, requestID uuid.UUID, equipmentIDs []uuid.UUID) (*RequestView, error) {
	return s.transition(ctx, CommandAssignEquipment, actor, requestID,
		func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
			if err := reservation.ReserveEquipment(ctx, tx, equipmentIDs); err != nil {
				return err
			}
			req.AssignedEquipment = append(req.AssignedEquipment[:0], equipmentIDs...)
			tripStatus := enums.TripStatusNotStarted
			req.TripStatus = &tripStatus
			return nil
		})
}

func (s *service) StartTrip(ctx context.Context, actor Actor, requestID uuid.UUID, location *types.GeoPoint) (*RequestView, error) {
	return s.transition(ctx, CommandStartTrip, actor, requestID,
		func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
			if req.TripStatus == nil || *req.TripStatus != enums.TripStatusNotStarted {
				return invalidTransition(req, CommandStartTrip, "trip already started")
			}
			if err := applyLocation(req, location); err != nil {
				return err
			}
			tripStatus := enums.TripStatusStarted
			req.TripStatus = &tripStatus
			return nil
		})
}

func (s *service) UpdateTripStatus(ctx context.Context, actor Actor, requestID uuid.UUID, input TripProgressInput) (*RequestView, error) {
	if !input.Next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown trip status").
			WithDetails(map[string]any{"trip_status": input.Next.String()})
	}
	return s.mutate(ctx, "update_trip_status", requestID, func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
		if req.Status != enums.RequestStatusTripStarted {
			return invalidTransition(req, "", "trip progress only while trip is underway")
		}
		if actor.Role != enums.PositionDriver || req.DriverID == nil || *req.DriverID != actor.UserID {
			return invalidTransition(req, "", "actor is not the bound driver")
		}
		if input.Next == enums.TripStatusNotStarted || input.Next == enums.TripStatusStarted {
			return invalidTransition(req, "", "trip cannot move backwards")
		}
		if req.TripStatus == nil || !req.TripStatus.CanAdvanceTo(input.Next) {
			return invalidTransition(req, "", "trip sub-state order violated")
		}
		if err := applyLocation(req, input.Location); err != nil {
			return err
		}
		next := input.Next
		req.TripStatus = &next
		return nil
	})
}

func (s *service) CompleteTrip(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error) {
	return s.transition(ctx, CommandCompleteTrip, actor, requestID,
		func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
			if req.TripStatus == nil || *req.TripStatus != enums.TripStatusReturned {
				return invalidTransition(req, CommandCompleteTrip, "trip has not returned")
			}
			return nil
		})
}

func (s *service) ConfirmEquipmentReturn(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error) {
	return s.transition(ctx, CommandConfirmEquipmentReturn, actor, requestID,
		func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
			return reservation.ReleaseEquipment(ctx, tx, req.AssignedEquipment)
		})
}

func (s *service) Finalize(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestView, error) {
	return s.transition(ctx, CommandFinalize, actor, requestID, nil)
}

func (s *service) AddExtraLocation(ctx context.Context, actor Actor, requestID uuid.UUID, name string) (*RequestView, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name required")
	}
	return s.mutate(ctx, "add_extra_location", requestID, func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
		if req.Status.IsTerminal() {
			return invalidTransition(req, "", "request is closed")
		}
		switch {
		case actor.Role.CanApprove():
		case actor.Role == enums.PositionReporter && req.ReporterID == actor.UserID:
		default:
			return invalidTransition(req, "", "actor cannot append locations")
		}

		count, err := repo.CountExtraLocations(ctx, requestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count extra locations")
		}
		loc := &models.ExtraLocation{
			ID:        uuid.New(),
			RequestID: requestID,
			Name:      strings.TrimSpace(name),
			Approved:  false,
			Position:  int(count) + 1,
		}
		if err := repo.CreateExtraLocation(ctx, loc); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append extra location")
		}
		req.ExtraLocations = append(req.ExtraLocations, *loc)
		return nil
	})
}

func (s *service) ApproveExtraLocation(ctx context.Context, actor Actor, requestID, locationID uuid.UUID) (*RequestView, error) {
	if locationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	return s.mutate(ctx, "approve_extra_location", requestID, func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
		if req.Status.IsTerminal() {
			return invalidTransition(req, "", "request is closed")
		}
		if !actor.Role.CanApprove() {
			return invalidTransition(req, "", "only admins approve locations")
		}
		if err := repo.ApproveExtraLocation(ctx, requestID, locationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "extra location not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve extra location")
		}
		for i := range req.ExtraLocations {
			if req.ExtraLocations[i].ID == locationID {
				req.ExtraLocations[i].Approved = true
			}
		}
		return nil
	})
}

func (s *service) ChangeReporter(ctx context.Context, actor Actor, requestID, newReporterID uuid.UUID) (*RequestView, error) {
	if newReporterID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reporter id required")
	}
	return s.mutate(ctx, "change_reporter", requestID, func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
		if !actor.Role.CanApprove() {
			return invalidTransition(req, "", "only admins reassign the reporter")
		}
		if req.Status.IsTerminal() {
			return invalidTransition(req, "", "request is closed")
		}

		var user models.User
		if err := tx.WithContext(ctx).Where("id = ?", newReporterID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reporter not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reporter")
		}
		if user.Position != enums.PositionReporter && user.Position != enums.PositionOperator {
			return pkgerrors.New(pkgerrors.CodeValidation, "user cannot own a request").
				WithDetails(map[string]any{"position": user.Position.String()})
		}
		req.ReporterID = newReporterID
		return nil
	})
}

func (s *service) GetByID(ctx context.Context, requestID uuid.UUID) (*RequestView, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return NewRequestView(req), nil
}

func (s *service) ListAll(ctx context.Context, statusFilter *enums.RequestStatus, params pagination.Params) (*RequestPage, error) {
	filter := ListFilter{}
	if statusFilter != nil {
		if !statusFilter.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status").
				WithDetails(map[string]any{"status": statusFilter.String()})
		}
		filter.Status = statusFilter
	}
	return s.list(ctx, filter, params)
}

func (s *service) ListMine(ctx context.Context, actor Actor, params pagination.Params) (*RequestPage, error) {
	return s.list(ctx, MineFilter(actor), params)
}

func (s *service) ListPendingForMe(ctx context.Context, actor Actor, params pagination.Params) (*RequestPage, error) {
	return s.list(ctx, PendingFilter(actor), params)
}

func (s *service) list(ctx context.Context, filter ListFilter, params pagination.Params) (*RequestPage, error) {
	page, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return page, nil
}

type effectFn func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error

// transition runs one table-driven lifecycle command: load, decide, apply the
// side effect, advance the status, and write everything under the version
// guard. A failure at any point rolls the whole transaction back.
func (s *service) transition(ctx context.Context, cmd Command, actor Actor, requestID uuid.UUID, effect effectFn) (*RequestView, error) {
	view, err := s.run(ctx, string(cmd), requestID, func(tx *gorm.DB, repo Repository, req *models.ShootingRequest) error {
		target, err := Decide(req, cmd, actor)
		if err != nil {
			return err
		}
		if effect != nil {
			if err := effect(tx, repo, req); err != nil {
				return err
			}
		}
		req.Status = target
		return nil
	})
	return view, err
}

// mutate runs a command that edits a request without moving the primary
// status (draft edits, trip progress, extra locations, reporter changes).
func (s *service) mutate(ctx context.Context, name string, requestID uuid.UUID, effect effectFn) (*RequestView, error) {
	return s.run(ctx, name, requestID, effect)
}

func (s *service) run(ctx context.Context, name string, requestID uuid.UUID, effect effectFn) (*RequestView, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	start := time.Now()
	var view *RequestView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		req, err := repo.FindByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}

		if err := effect(tx, repo, req); err != nil {
			return err
		}

		if err := repo.UpdateGuarded(ctx, req); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "request changed concurrently")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist request")
		}
		view = NewRequestView(req)
		return nil
	})

	s.workflow.ObserveDuration(name, time.Since(start))
	if err != nil {
		code := pkgerrors.CodeInternal
		if typed := pkgerrors.As(err); typed != nil {
			code = typed.Code()
		}
		s.workflow.IncRejected(name, string(code))
		return nil, err
	}
	s.workflow.IncAccepted(name)
	return view, nil
}

func applyLocation(req *models.ShootingRequest, location *types.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coordinate")
	}
	point := *location
	req.CurrentLocation = &point
	return nil
}
