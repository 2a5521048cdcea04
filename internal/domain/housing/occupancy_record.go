package housing

import (
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordType classifies an occupancy history entry
type RecordType string

const (
	RecordTypeMoveIn      RecordType = "MOVE_IN"
	RecordTypeMoveOut     RecordType = "MOVE_OUT"
	RecordTypeTransferIn  RecordType = "TRANSFER_IN"
	RecordTypeTransferOut RecordType = "TRANSFER_OUT"
)

// OccupancyRecord is an append-only history entry for an occupant list
// mutation. Records are written in the same unit of work as the mutation.
type OccupancyRecord struct {
	shared.BaseEntity
	RoomID     uuid.UUID
	PropertyID uuid.UUID
	TenantID   uuid.UUID
	Type       RecordType
	RequestID  *uuid.UUID
	OccurredAt time.Time
}

// NewOccupancyRecord creates a history entry for a room mutation
func NewOccupancyRecord(room *Room, tenantID uuid.UUID, recordType RecordType, requestID *uuid.UUID, at time.Time) *OccupancyRecord {
	return &OccupancyRecord{
		BaseEntity: shared.NewBaseEntity(at),
		RoomID:     room.ID,
		PropertyID: room.PropertyID,
		TenantID:   tenantID,
		Type:       recordType,
		RequestID:  requestID,
		OccurredAt: at,
	}
}
