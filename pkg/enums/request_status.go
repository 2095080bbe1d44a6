package enums

import "fmt"

// RequestStatus tracks the lifecycle of a shooting request.
type RequestStatus string

const (
	RequestStatusDraft             RequestStatus = "draft"
	RequestStatusSubmitted         RequestStatus = "submitted"
	RequestStatusAdminApproved     RequestStatus = "admin_approved"
	RequestStatusRejected          RequestStatus = "rejected"
	RequestStatusEquipmentAssigned RequestStatus = "equipment_assigned"
	RequestStatusTripStarted       RequestStatus = "trip_started"
	RequestStatusTripReturned      RequestStatus = "trip_returned"
	RequestStatusEquipmentReturned RequestStatus = "equipment_returned"
	RequestStatusFinished          RequestStatus = "finished"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusDraft,
	RequestStatusSubmitted,
	RequestStatusAdminApproved,
	RequestStatusRejected,
	RequestStatusEquipmentAssigned,
	RequestStatusTripStarted,
	RequestStatusTripReturned,
	RequestStatusEquipmentReturned,
	RequestStatusFinished,
}

// statusRank orders the forward path. Rejected sits outside the rank order.
var statusRank = map[RequestStatus]int{
	RequestStatusDraft:             0,
	RequestStatusSubmitted:         1,
	RequestStatusAdminApproved:     2,
	RequestStatusEquipmentAssigned: 3,
	RequestStatusTripStarted:       4,
	RequestStatusTripReturned:      5,
	RequestStatusEquipmentReturned: 6,
	RequestStatusFinished:          7,
}

// String implements fmt.Stringer.
func (r RequestStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RequestStatus.
func (r RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status absorbs all further commands.
func (r RequestStatus) IsTerminal() bool {
	return r == RequestStatusFinished || r == RequestStatusRejected
}

// HasReached reports whether the status sits at or beyond the milestone on the
// forward path. Rejected requests never reach any milestone.
func (r RequestStatus) HasReached(milestone RequestStatus) bool {
	rank, ok := statusRank[r]
	if !ok {
		return false
	}
	target, ok := statusRank[milestone]
	if !ok {
		return false
	}
	return rank >= target
}

// ParseRequestStatus converts raw input into a RequestStatus.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
