package requests

import (
	"github.com/crewcast/shootflow-backend/pkg/db/models"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/google/uuid"
)

// Command is a lifecycle action against a shooting request.
type Command string

const (
	CommandSubmit                 Command = "submit"
	CommandApproveAndAssignDriver Command = "approve_and_assign_driver"
	CommandReject                 Command = "reject"
	CommandAssignEquipment        Command = "assign_equipment"
	CommandStartTrip              Command = "start_trip"
	CommandCompleteTrip           Command = "complete_trip"
	CommandConfirmEquipmentReturn Command = "confirm_equipment_return"
	CommandFinalize               Command = "finalize"
)

// Actor is the resolved identity issuing a command. Authentication happens
// upstream; the engine only ever sees the id and directory position.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Position
}

// binding narrows a transition beyond the role check.
type binding int

const (
	bindNone binding = iota
	// bindOwner requires the actor to be the request's reporter.
	bindOwner
	// bindDriver requires the actor to be the driver bound at approval.
	bindDriver
)

// transition is a single allowed edge in the request state machine.
type transition struct {
	From    enums.RequestStatus
	Command Command
	Roles   []enums.Position
	Binding binding
	To      enums.RequestStatus
}

var approverRoles = []enums.Position{enums.PositionAdmin, enums.PositionHeadOfReporters}

var transitionTable = []transition{
	{From: enums.RequestStatusDraft, Command: CommandSubmit, Roles: []enums.Position{enums.PositionReporter}, Binding: bindOwner, To: enums.RequestStatusSubmitted},
	{From: enums.RequestStatusSubmitted, Command: CommandApproveAndAssignDriver, Roles: approverRoles, To: enums.RequestStatusAdminApproved},
	{From: enums.RequestStatusSubmitted, Command: CommandReject, Roles: approverRoles, To: enums.RequestStatusRejected},
	{From: enums.RequestStatusAdminApproved, Command: CommandAssignEquipment, Roles: []enums.Position{enums.PositionEquipmentCustodian}, To: enums.RequestStatusEquipmentAssigned},
	{From: enums.RequestStatusEquipmentAssigned, Command: CommandStartTrip, Roles: []enums.Position{enums.PositionDriver}, Binding: bindDriver, To: enums.RequestStatusTripStarted},
	{From: enums.RequestStatusTripStarted, Command: CommandCompleteTrip, Roles: []enums.Position{enums.PositionDriver}, Binding: bindDriver, To: enums.RequestStatusTripReturned},
	{From: enums.RequestStatusTripReturned, Command: CommandConfirmEquipmentReturn, Roles: []enums.Position{enums.PositionEquipmentCustodian}, To: enums.RequestStatusEquipmentReturned},
	{From: enums.RequestStatusEquipmentReturned, Command: CommandFinalize, Roles: []enums.Position{enums.PositionReporter}, Binding: bindOwner, To: enums.RequestStatusFinished},
}

// Decide resolves the target status for a command against the current request.
// Every mismatch (wrong state, wrong role, not the owner or bound driver)
// is the same STATE_CONFLICT failure, and the request is untouched.
func Decide(req *models.ShootingRequest, cmd Command, actor Actor) (enums.RequestStatus, error) {
	for _, tr := range transitionTable {
		if tr.From != req.Status || tr.Command != cmd {
			continue
		}
		if !roleAllowed(tr.Roles, actor.Role) {
			return "", invalidTransition(req, cmd, "role not allowed to issue command")
		}
		if err := checkBinding(tr.Binding, req, actor); err != nil {
			return "", err
		}
		return tr.To, nil
	}
	return "", invalidTransition(req, cmd, "command not legal for current status")
}

func roleAllowed(roles []enums.Position, role enums.Position) bool {
	for _, candidate := range roles {
		if candidate == role {
			return true
		}
	}
	return false
}

func checkBinding(b binding, req *models.ShootingRequest, actor Actor) error {
	switch b {
	case bindOwner:
		if req.ReporterID != actor.UserID {
			return invalidTransition(req, "", "actor does not own the request")
		}
	case bindDriver:
		if req.DriverID == nil || *req.DriverID != actor.UserID {
			return invalidTransition(req, "", "actor is not the bound driver")
		}
	}
	return nil
}

func invalidTransition(req *models.ShootingRequest, cmd Command, reason string) error {
	details := map[string]any{
		"status": req.Status.String(),
		"reason": reason,
	}
	if cmd != "" {
		details["command"] = string(cmd)
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "invalid transition").WithDetails(details)
}
