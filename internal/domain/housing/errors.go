package housing

import (
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Room registry error kinds. Every error returned for a specific room carries
// the room id under the "room_id" detail key.
var (
	ErrInvalidCapacity   = shared.NewDomainError("INVALID_CAPACITY", "Room capacity must be at least 1")
	ErrRoomFull          = shared.NewDomainError("ROOM_FULL", "Room is at full capacity")
	ErrDuplicateOccupant = shared.NewDomainError("DUPLICATE_OCCUPANT", "Tenant already occupies a room")
	ErrOccupantNotFound  = shared.NewDomainError("OCCUPANT_NOT_FOUND", "Tenant is not an occupant of the room")
	ErrRoomNotEmpty      = shared.NewDomainError("ROOM_NOT_EMPTY", "Room still has occupants")
	ErrRoomNotFound      = shared.NewDomainError("ROOM_NOT_FOUND", "Room not found")
	ErrPropertyNotFound  = shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found")
	ErrInvalidOccupant   = shared.NewDomainError("INVALID_OCCUPANT", "Occupant tenant ID is required")
	ErrInvalidRoom       = shared.NewDomainError("INVALID_ROOM", "Room data is invalid")
	ErrInvalidProperty   = shared.NewDomainError("INVALID_PROPERTY", "Property data is invalid")
)

// RoomError attaches the room id to a room-level error kind.
func RoomError(kind *shared.DomainError, roomID uuid.UUID) *shared.DomainError {
	return kind.WithDetail("room_id", roomID.String())
}

// TenantRoomError attaches both the room and tenant ids.
func TenantRoomError(kind *shared.DomainError, roomID, tenantID uuid.UUID) *shared.DomainError {
	return kind.WithDetail("room_id", roomID.String()).WithDetail("tenant_id", tenantID.String())
}
