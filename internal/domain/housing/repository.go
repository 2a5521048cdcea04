package housing

import (
	"context"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PropertyRepository defines persistence operations for properties
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Property, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, property *Property) error
}

// RoomRepository defines persistence operations for rooms and their
// occupant lists.
type RoomRepository interface {
	// FindByID returns ErrRoomNotFound when the room does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByOccupant returns the room the tenant occupies, or ErrRoomNotFound
	FindByOccupant(ctx context.Context, tenantID uuid.UUID) (*Room, error)

	// FindAll returns rooms ordered by creation time. Supported filter keys:
	// "property_id" (uuid.UUID).
	FindAll(ctx context.Context, filter shared.Filter) ([]Room, error)

	// Create inserts a new room with its occupants
	Create(ctx context.Context, room *Room) error

	// SaveWithLock persists a modified room, including its occupant list,
	// if the stored version equals room.Version-1. Returns
	// shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, room *Room) error

	// Delete removes an empty room
	Delete(ctx context.Context, id uuid.UUID) error
}

// OccupancyRecordRepository stores the append-only occupancy history
type OccupancyRecordRepository interface {
	Append(ctx context.Context, records ...*OccupancyRecord) error
	FindByRoom(ctx context.Context, roomID uuid.UUID, filter shared.Filter) ([]OccupancyRecord, error)
	CountByRoom(ctx context.Context, roomID uuid.UUID) (int64, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]OccupancyRecord, error)
}
