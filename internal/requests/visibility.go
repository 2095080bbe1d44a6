package requests

import (
	"github.com/crewcast/shootflow-backend/pkg/enums"
)

// MineFilter returns the "my requests" scope for an actor. The mapping is
// role-specific:
//
//   - reporter: requests the actor owns
//   - driver: requests the actor is bound to
//   - initiator: requests naming the actor as originating stakeholder
//   - operator: membership of the actor's id in the assigned equipment set.
//     That set holds equipment ids, not user ids, so the scope is permanently
//     empty; it is implemented literally rather than silently repaired.
//
// Roles without a personal queue (admin, head of reporters, custodian) match
// nothing.
func MineFilter(actor Actor) ListFilter {
	self := actor.UserID
	switch actor.Role {
	case enums.PositionReporter:
		return ListFilter{ReporterID: &self}
	case enums.PositionDriver:
		return ListFilter{DriverID: &self}
	case enums.PositionInitiator:
		return ListFilter{InitiatorID: &self}
	case enums.PositionOperator:
		return ListFilter{EquipmentMemberID: &self}
	default:
		return ListFilter{MatchNone: true}
	}
}

// PendingFilter returns the slice of requests waiting on the actor to move
// them: the one state per role where that role acts next.
func PendingFilter(actor Actor) ListFilter {
	self := actor.UserID
	switch actor.Role {
	case enums.PositionAdmin, enums.PositionHeadOfReporters:
		return ListFilter{Statuses: []enums.RequestStatus{enums.RequestStatusSubmitted}}
	case enums.PositionEquipmentCustodian:
		return ListFilter{Statuses: []enums.RequestStatus{
			enums.RequestStatusAdminApproved,
			enums.RequestStatusTripReturned,
		}}
	case enums.PositionDriver:
		return ListFilter{
			DriverID: &self,
			Statuses: []enums.RequestStatus{enums.RequestStatusEquipmentAssigned},
		}
	case enums.PositionReporter:
		return ListFilter{
			ReporterID: &self,
			Statuses:   []enums.RequestStatus{enums.RequestStatusEquipmentReturned},
		}
	default:
		return ListFilter{MatchNone: true}
	}
}
