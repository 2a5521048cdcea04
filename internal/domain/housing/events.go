package housing

import (
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeRoom     = "Room"
	AggregateTypeProperty = "Property"
)

// Event type constants
const (
	EventTypeRoomCreated            = "RoomCreated"
	EventTypeRoomDeleted            = "RoomDeleted"
	EventTypeRoomMaintenanceChanged = "RoomMaintenanceChanged"
	EventTypeOccupancyChanged       = "OccupancyChanged"
	EventTypePropertyCreated        = "PropertyCreated"
)

// OccupancyChange is the direction of an occupant list mutation
type OccupancyChange string

const (
	OccupancyChangeMoveIn  OccupancyChange = "MOVE_IN"
	OccupancyChangeMoveOut OccupancyChange = "MOVE_OUT"
)

// RoomCreatedEvent is raised when a room is added to a property
type RoomCreatedEvent struct {
	shared.BaseDomainEvent
	RoomID     uuid.UUID `json:"room_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Capacity   int       `json:"capacity"`
}

// NewRoomCreatedEvent creates a new RoomCreatedEvent
func NewRoomCreatedEvent(room *Room) *RoomCreatedEvent {
	return &RoomCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoomCreated, AggregateTypeRoom, room.ID, room.CreatedAt),
		RoomID:          room.ID,
		PropertyID:      room.PropertyID,
		Capacity:        room.Capacity,
	}
}

// EventType returns the event type name
func (e *RoomCreatedEvent) EventType() string {
	return EventTypeRoomCreated
}

// RoomDeletedEvent is raised when an empty room is destroyed
type RoomDeletedEvent struct {
	shared.BaseDomainEvent
	RoomID     uuid.UUID `json:"room_id"`
	PropertyID uuid.UUID `json:"property_id"`
}

// NewRoomDeletedEvent creates a new RoomDeletedEvent
func NewRoomDeletedEvent(room *Room, at time.Time) *RoomDeletedEvent {
	return &RoomDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoomDeleted, AggregateTypeRoom, room.ID, at),
		RoomID:          room.ID,
		PropertyID:      room.PropertyID,
	}
}

// EventType returns the event type name
func (e *RoomDeletedEvent) EventType() string {
	return EventTypeRoomDeleted
}

// RoomMaintenanceChangedEvent is raised when the maintenance flag flips
type RoomMaintenanceChangedEvent struct {
	shared.BaseDomainEvent
	RoomID      uuid.UUID  `json:"room_id"`
	Maintenance bool       `json:"maintenance"`
	Status      RoomStatus `json:"status"`
}

// NewRoomMaintenanceChangedEvent creates a new RoomMaintenanceChangedEvent
func NewRoomMaintenanceChangedEvent(room *Room, at time.Time) *RoomMaintenanceChangedEvent {
	return &RoomMaintenanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoomMaintenanceChanged, AggregateTypeRoom, room.ID, at),
		RoomID:          room.ID,
		Maintenance:     room.Maintenance,
		Status:          room.Status(),
	}
}

// EventType returns the event type name
func (e *RoomMaintenanceChangedEvent) EventType() string {
	return EventTypeRoomMaintenanceChanged
}

// OccupancyChangedEvent is raised whenever a room's occupant list changes.
// OccupantCount and Status describe the room after the change.
type OccupancyChangedEvent struct {
	shared.BaseDomainEvent
	RoomID        uuid.UUID       `json:"room_id"`
	PropertyID    uuid.UUID       `json:"property_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Change        OccupancyChange `json:"change"`
	OccupantCount int             `json:"occupant_count"`
	Capacity      int             `json:"capacity"`
	Status        RoomStatus      `json:"status"`
}

// NewOccupancyChangedEvent creates a new OccupancyChangedEvent
func NewOccupancyChangedEvent(room *Room, tenantID uuid.UUID, change OccupancyChange, at time.Time) *OccupancyChangedEvent {
	return &OccupancyChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOccupancyChanged, AggregateTypeRoom, room.ID, at),
		RoomID:          room.ID,
		PropertyID:      room.PropertyID,
		TenantID:        tenantID,
		Change:          change,
		OccupantCount:   len(room.Occupants),
		Capacity:        room.Capacity,
		Status:          room.Status(),
	}
}

// EventType returns the event type name
func (e *OccupancyChangedEvent) EventType() string {
	return EventTypeOccupancyChanged
}

// PropertyCreatedEvent is raised when a property is registered
type PropertyCreatedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
}

// NewPropertyCreatedEvent creates a new PropertyCreatedEvent
func NewPropertyCreatedEvent(p *Property) *PropertyCreatedEvent {
	return &PropertyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyCreated, AggregateTypeProperty, p.ID, p.CreatedAt),
		PropertyID:      p.ID,
		Name:            p.Name,
	}
}

// EventType returns the event type name
func (e *PropertyCreatedEvent) EventType() string {
	return EventTypePropertyCreated
}
