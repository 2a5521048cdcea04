package housing

import (
	"strings"
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomDetails is the descriptive metadata of a room. None of it takes part
// in occupancy rules.
type RoomDetails struct {
	Name        string
	Facilities  []string
	Price       decimal.Decimal
	Description string
}

func (d RoomDetails) normalize() (RoomDetails, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	if len(d.Name) > 100 {
		return d, ErrInvalidRoom.WithMessage("Room name cannot exceed 100 characters")
	}
	if d.Price.IsNegative() {
		return d, ErrInvalidRoom.WithMessage("Room price cannot be negative")
	}
	facilities := make([]string, 0, len(d.Facilities))
	seen := make(map[string]struct{}, len(d.Facilities))
	for _, f := range d.Facilities {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		facilities = append(facilities, f)
	}
	d.Facilities = facilities
	return d, nil
}

// Room is the aggregate root for occupancy. It is the sole authority for a
// room's capacity and occupant membership.
//
// Occupants are kept in move-in order and never exceed Capacity.
type Room struct {
	shared.BaseAggregateRoot
	PropertyID  uuid.UUID
	Capacity    int
	Occupants   []Occupant
	Maintenance bool
	RoomDetails
}

// NewRoom creates an empty room in a property
func NewRoom(propertyID uuid.UUID, capacity int, details RoomDetails, at time.Time) (*Room, error) {
	if propertyID == uuid.Nil {
		return nil, ErrInvalidRoom.WithMessage("Property ID cannot be empty")
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	details, err := details.normalize()
	if err != nil {
		return nil, err
	}

	room := &Room{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(at),
		PropertyID:        propertyID,
		Capacity:          capacity,
		Occupants:         make([]Occupant, 0, capacity),
		RoomDetails:       details,
	}
	room.AddDomainEvent(NewRoomCreatedEvent(room))

	return room, nil
}

// Status derives the current display status
func (r *Room) Status() RoomStatus {
	return DeriveStatus(len(r.Occupants), r.Capacity, r.Maintenance)
}

// OccupantCount returns the number of occupants
func (r *Room) OccupantCount() int {
	return len(r.Occupants)
}

// HasVacancy reports whether one more occupant fits
func (r *Room) HasVacancy() bool {
	return len(r.Occupants) < r.Capacity
}

// IsEmpty reports whether the room has no occupants
func (r *Room) IsEmpty() bool {
	return len(r.Occupants) == 0
}

// IndexOf returns the position of the tenant in the occupant list, or -1
func (r *Room) IndexOf(tenantID uuid.UUID) int {
	for i, o := range r.Occupants {
		if o.TenantID == tenantID {
			return i
		}
	}
	return -1
}

// HasOccupant reports whether the tenant occupies this room
func (r *Room) HasOccupant(tenantID uuid.UUID) bool {
	return r.IndexOf(tenantID) >= 0
}

// Occupant returns the occupant entry for a tenant
func (r *Room) Occupant(tenantID uuid.UUID) (Occupant, bool) {
	if i := r.IndexOf(tenantID); i >= 0 {
		return r.Occupants[i], true
	}
	return Occupant{}, false
}

// AddOccupant appends an occupant. Membership in other rooms is checked by
// the caller, which has the system-wide view; this only rejects a tenant
// already present here.
func (r *Room) AddOccupant(occupant Occupant, at time.Time) error {
	if occupant.TenantID == uuid.Nil {
		return RoomError(ErrInvalidOccupant, r.ID)
	}
	if r.HasOccupant(occupant.TenantID) {
		return TenantRoomError(ErrDuplicateOccupant, r.ID, occupant.TenantID)
	}
	if !r.HasVacancy() {
		return RoomError(ErrRoomFull, r.ID)
	}

	r.Occupants = append(r.Occupants, occupant)
	r.Touch(at)
	r.IncrementVersion()
	r.AddDomainEvent(NewOccupancyChangedEvent(r, occupant.TenantID, OccupancyChangeMoveIn, at))

	return nil
}

// RemoveOccupant removes a tenant and returns the removed entry together
// with its former position, so that the removal can be undone.
func (r *Room) RemoveOccupant(tenantID uuid.UUID, at time.Time) (Occupant, int, error) {
	i := r.IndexOf(tenantID)
	if i < 0 {
		return Occupant{}, -1, TenantRoomError(ErrOccupantNotFound, r.ID, tenantID)
	}

	removed := r.Occupants[i]
	r.Occupants = append(r.Occupants[:i:i], r.Occupants[i+1:]...)
	r.Touch(at)
	r.IncrementVersion()
	r.AddDomainEvent(NewOccupancyChangedEvent(r, tenantID, OccupancyChangeMoveOut, at))

	return removed, i, nil
}

// RestoreOccupant puts a previously removed occupant back at its former
// position. It undoes RemoveOccupant, including the pending event.
func (r *Room) RestoreOccupant(occupant Occupant, position int, at time.Time) error {
	if r.HasOccupant(occupant.TenantID) {
		return TenantRoomError(ErrDuplicateOccupant, r.ID, occupant.TenantID)
	}
	if !r.HasVacancy() {
		return RoomError(ErrRoomFull, r.ID)
	}
	if position < 0 || position > len(r.Occupants) {
		position = len(r.Occupants)
	}

	occupants := make([]Occupant, 0, len(r.Occupants)+1)
	occupants = append(occupants, r.Occupants[:position]...)
	occupants = append(occupants, occupant)
	occupants = append(occupants, r.Occupants[position:]...)
	r.Occupants = occupants
	r.Touch(at)
	r.IncrementVersion()
	r.dropOccupancyEvent(occupant.TenantID, OccupancyChangeMoveOut)

	return nil
}

func (r *Room) dropOccupancyEvent(tenantID uuid.UUID, change OccupancyChange) {
	events := r.GetDomainEvents()
	for i := len(events) - 1; i >= 0; i-- {
		e, ok := events[i].(*OccupancyChangedEvent)
		if ok && e.TenantID == tenantID && e.Change == change {
			kept := append(events[:i:i], events[i+1:]...)
			r.ClearDomainEvents()
			for _, k := range kept {
				r.AddDomainEvent(k)
			}
			return
		}
	}
}

// SetMaintenance sets the maintenance flag. It has no effect on capacity.
func (r *Room) SetMaintenance(flag bool, at time.Time) {
	if r.Maintenance == flag {
		return
	}
	r.Maintenance = flag
	r.Touch(at)
	r.IncrementVersion()
	r.AddDomainEvent(NewRoomMaintenanceChangedEvent(r, at))
}

// UpdateDetails replaces the descriptive metadata
func (r *Room) UpdateDetails(details RoomDetails, at time.Time) error {
	details, err := details.normalize()
	if err != nil {
		return err
	}
	r.RoomDetails = details
	r.Touch(at)
	r.IncrementVersion()
	return nil
}

// MarkDeleted checks that the room can be destroyed and records the deletion
func (r *Room) MarkDeleted(at time.Time) error {
	if !r.IsEmpty() {
		return RoomError(ErrRoomNotEmpty, r.ID)
	}
	r.AddDomainEvent(NewRoomDeletedEvent(r, at))
	return nil
}

// TenantIDs returns the occupant tenant ids in move-in order
func (r *Room) TenantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Occupants))
	for i, o := range r.Occupants {
		ids[i] = o.TenantID
	}
	return ids
}
