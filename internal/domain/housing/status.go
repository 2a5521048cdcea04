package housing

import (
	"fmt"
	"strings"
)

// RoomStatus is the display status of a room. It is never stored; every read
// derives it from the room's occupancy through DeriveStatus.
type RoomStatus string

const (
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
	RoomStatusVacant      RoomStatus = "VACANT"
	RoomStatusFull        RoomStatus = "FULL"
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
)

// AllRoomStatuses lists statuses in derivation precedence order.
var AllRoomStatuses = []RoomStatus{
	RoomStatusMaintenance,
	RoomStatusVacant,
	RoomStatusFull,
	RoomStatusAvailable,
}

// DeriveStatus computes a room status from its occupant count, capacity and
// maintenance flag. Maintenance overrides everything; a count at or above
// capacity is always FULL, even if the count somehow exceeds it.
func DeriveStatus(occupantCount, capacity int, maintenance bool) RoomStatus {
	if maintenance {
		return RoomStatusMaintenance
	}
	if occupantCount <= 0 {
		return RoomStatusVacant
	}
	if occupantCount >= capacity {
		return RoomStatusFull
	}
	return RoomStatusAvailable
}

// String returns the string representation
func (s RoomStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s RoomStatus) IsValid() bool {
	for _, v := range AllRoomStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseRoomStatus parses a case-insensitive status name
func ParseRoomStatus(s string) (RoomStatus, error) {
	status := RoomStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown room status %q", s)
	}
	return status, nil
}
