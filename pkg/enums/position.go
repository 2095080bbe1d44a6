package enums

import "fmt"

// Position is the directory role a user holds. It doubles as the workflow actor
// role: identity arrives already resolved, the engine only checks the position.
type Position string

const (
	PositionReporter           Position = "reporter"
	PositionHeadOfReporters    Position = "head_of_reporters"
	PositionAdmin              Position = "admin"
	PositionEquipmentCustodian Position = "equipment_custodian"
	PositionDriver             Position = "driver"
	PositionOperator           Position = "operator"
	PositionInitiator          Position = "initiator"
)

var validPositions = []Position{
	PositionReporter,
	PositionHeadOfReporters,
	PositionAdmin,
	PositionEquipmentCustodian,
	PositionDriver,
	PositionOperator,
	PositionInitiator,
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Position.
func (p Position) IsValid() bool {
	for _, candidate := range validPositions {
		if candidate == p {
			return true
		}
	}
	return false
}

// CanApprove reports whether the position carries admin approval capability.
// Head of reporters acts with admin capability on submitted requests.
func (p Position) CanApprove() bool {
	return p == PositionAdmin || p == PositionHeadOfReporters
}

// ParsePosition converts raw input into a Position.
func ParsePosition(value string) (Position, error) {
	for _, candidate := range validPositions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid position %q", value)
}
