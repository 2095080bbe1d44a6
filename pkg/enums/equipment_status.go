package enums

import "fmt"

// EquipmentStatus tracks whether an equipment item can be drawn from the pool.
type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusAssigned    EquipmentStatus = "assigned"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
)

var validEquipmentStatuses = []EquipmentStatus{
	EquipmentStatusAvailable,
	EquipmentStatusAssigned,
	EquipmentStatusMaintenance,
}

// String implements fmt.Stringer.
func (e EquipmentStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EquipmentStatus.
func (e EquipmentStatus) IsValid() bool {
	for _, candidate := range validEquipmentStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEquipmentStatus converts raw input into an EquipmentStatus.
func ParseEquipmentStatus(value string) (EquipmentStatus, error) {
	for _, candidate := range validEquipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid equipment status %q", value)
}
