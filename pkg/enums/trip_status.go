package enums

import "fmt"

// TripStatus is the nested driver-authored progression within an approved request.
type TripStatus string

const (
	TripStatusNotStarted TripStatus = "not_started"
	TripStatusStarted    TripStatus = "started"
	TripStatusArrived    TripStatus = "arrived"
	TripStatusWaiting    TripStatus = "waiting"
	TripStatusReturning  TripStatus = "returning"
	TripStatusReturned   TripStatus = "returned"
)

var validTripStatuses = []TripStatus{
	TripStatusNotStarted,
	TripStatusStarted,
	TripStatusArrived,
	TripStatusWaiting,
	TripStatusReturning,
	TripStatusReturned,
}

// tripSuccessors encodes the allowed edges, including the Arrived fork.
var tripSuccessors = map[TripStatus][]TripStatus{
	TripStatusNotStarted: {TripStatusStarted},
	TripStatusStarted:    {TripStatusArrived},
	TripStatusArrived:    {TripStatusWaiting, TripStatusReturning},
	TripStatusWaiting:    {TripStatusReturning},
	TripStatusReturning:  {TripStatusReturned},
}

// String implements fmt.Stringer.
func (t TripStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TripStatus.
func (t TripStatus) IsValid() bool {
	for _, candidate := range validTripStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether next is a legal successor of the current sub-state.
func (t TripStatus) CanAdvanceTo(next TripStatus) bool {
	for _, candidate := range tripSuccessors[t] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseTripStatus converts raw input into a TripStatus.
func ParseTripStatus(value string) (TripStatus, error) {
	for _, candidate := range validTripStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trip status %q", value)
}
