package occupancy

import (
	"strings"
	"time"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest represents a request to register a property
type CreatePropertyRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// UpdatePropertyRequest represents a request to update a property
type UpdatePropertyRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=500"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRoomRequest represents a request to create a room.
// Capacity is validated by the domain so that a zero or negative value
// surfaces as INVALID_CAPACITY.
type CreateRoomRequest struct {
	PropertyID  uuid.UUID       `json:"property_id" binding:"required"`
	Capacity    int             `json:"capacity"`
	Name        string          `json:"name" binding:"max=100"`
	Facilities  []string        `json:"facilities"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" binding:"max=2000"`
}

// UpdateRoomRequest represents a request to update room metadata
type UpdateRoomRequest struct {
	Name        string          `json:"name" binding:"max=100"`
	Facilities  []string        `json:"facilities"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" binding:"max=2000"`
}

// SetMaintenanceRequest toggles a room's maintenance flag
type SetMaintenanceRequest struct {
	Maintenance *bool `json:"maintenance" binding:"required"`
}

// AddOccupantRequest places a tenant directly into a room
type AddOccupantRequest struct {
	TenantID   uuid.UUID  `json:"tenant_id" binding:"required"`
	Name       string     `json:"name" binding:"max=200"`
	Contact    string     `json:"contact" binding:"max=200"`
	MoveInDate *time.Time `json:"move_in_date"`
}

// RoomListFilter represents filter options for room lists
type RoomListFilter struct {
	PropertyID *uuid.UUID
	Status     *housing.RoomStatus
	Page       int
	PageSize   int
}

// OccupantResponse represents an occupant in API responses
type OccupantResponse struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	Name       string    `json:"name"`
	Contact    string    `json:"contact"`
	MoveInDate time.Time `json:"move_in_date"`
	Position   int       `json:"position"`
}

// RoomResponse represents a room in API responses. Status is derived at
// conversion time.
type RoomResponse struct {
	ID             uuid.UUID          `json:"id"`
	PropertyID     uuid.UUID          `json:"property_id"`
	Name           string             `json:"name"`
	Capacity       int                `json:"capacity"`
	OccupantCount  int                `json:"occupant_count"`
	AvailableSlots int                `json:"available_slots"`
	Status         housing.RoomStatus `json:"status"`
	Maintenance    bool               `json:"maintenance"`
	Occupants      []OccupantResponse `json:"occupants"`
	Facilities     []string           `json:"facilities"`
	Price          decimal.Decimal    `json:"price"`
	Description    string             `json:"description"`
	Version        int                `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// OccupancyRecordResponse represents an occupancy history entry
type OccupancyRecordResponse struct {
	ID         uuid.UUID          `json:"id"`
	RoomID     uuid.UUID          `json:"room_id"`
	PropertyID uuid.UUID          `json:"property_id"`
	TenantID   uuid.UUID          `json:"tenant_id"`
	Type       housing.RecordType `json:"type"`
	RequestID  *uuid.UUID         `json:"request_id,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// SubmitNewAssignmentRequest asks for a first room
type SubmitNewAssignmentRequest struct {
	TenantID     uuid.UUID `json:"tenant_id" binding:"required"`
	TargetRoomID uuid.UUID `json:"target_room_id" binding:"required"`
	Name         string    `json:"name" binding:"max=200"`
	Contact      string    `json:"contact" binding:"max=200"`
}

// SubmitTransferRequest asks to move between rooms
type SubmitTransferRequest struct {
	TenantID     uuid.UUID `json:"tenant_id" binding:"required"`
	SourceRoomID uuid.UUID `json:"source_room_id" binding:"required"`
	TargetRoomID uuid.UUID `json:"target_room_id" binding:"required"`
}

// SubmitMoveOutRequest asks to vacate a room. PlannedMoveOutDate accepts
// either YYYY-MM-DD or RFC 3339.
type SubmitMoveOutRequest struct {
	TenantID           uuid.UUID `json:"tenant_id" binding:"required"`
	SourceRoomID       uuid.UUID `json:"source_room_id" binding:"required"`
	PlannedMoveOutDate string    `json:"planned_move_out_date" binding:"required"`
}

// RespondRequest carries the administrator's message
type RespondRequest struct {
	Message string `json:"message" binding:"max=1000"`
}

// RequestListFilter represents filter options for request lists
type RequestListFilter struct {
	TenantID *uuid.UUID
	Status   *request.Status
	Kind     *request.Kind
	Page     int
	PageSize int
}

// AdminResponseDTO represents the administrator's response
type AdminResponseDTO struct {
	Message     string     `json:"message"`
	RespondedAt time.Time  `json:"responded_at"`
	RespondedBy *uuid.UUID `json:"responded_by,omitempty"`
}

// RequestResponse represents an occupancy request in API responses
type RequestResponse struct {
	ID                 uuid.UUID         `json:"id"`
	TenantID           uuid.UUID         `json:"tenant_id"`
	Kind               request.Kind      `json:"kind"`
	Status             request.Status    `json:"status"`
	RequestedAt        time.Time         `json:"requested_at"`
	SourceRoomID       *uuid.UUID        `json:"source_room_id,omitempty"`
	TargetRoomID       *uuid.UUID        `json:"target_room_id,omitempty"`
	PlannedMoveOutDate *time.Time        `json:"planned_move_out_date,omitempty"`
	ApplicantName      string            `json:"applicant_name,omitempty"`
	ApplicantContact   string            `json:"applicant_contact,omitempty"`
	AdminResponse      *AdminResponseDTO `json:"admin_response,omitempty"`
	Version            int               `json:"version"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ToPropertyResponse converts a domain Property to PropertyResponse
func ToPropertyResponse(p *housing.Property) PropertyResponse {
	return PropertyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToRoomResponse converts a domain Room to RoomResponse
func ToRoomResponse(room *housing.Room) RoomResponse {
	occupants := make([]OccupantResponse, len(room.Occupants))
	for i, o := range room.Occupants {
		occupants[i] = OccupantResponse{
			TenantID:   o.TenantID,
			Name:       o.Name,
			Contact:    o.Contact,
			MoveInDate: o.MoveInDate,
			Position:   i,
		}
	}
	facilities := room.Facilities
	if facilities == nil {
		facilities = []string{}
	}
	available := room.Capacity - len(room.Occupants)
	if available < 0 {
		available = 0
	}
	return RoomResponse{
		ID:             room.ID,
		PropertyID:     room.PropertyID,
		Name:           room.Name,
		Capacity:       room.Capacity,
		OccupantCount:  len(room.Occupants),
		AvailableSlots: available,
		Status:         room.Status(),
		Maintenance:    room.Maintenance,
		Occupants:      occupants,
		Facilities:     facilities,
		Price:          room.Price,
		Description:    room.Description,
		Version:        room.Version,
		CreatedAt:      room.CreatedAt,
		UpdatedAt:      room.UpdatedAt,
	}
}

// ToRoomResponses converts a slice of rooms
func ToRoomResponses(rooms []housing.Room) []RoomResponse {
	responses := make([]RoomResponse, len(rooms))
	for i := range rooms {
		responses[i] = ToRoomResponse(&rooms[i])
	}
	return responses
}

// ToOccupancyRecordResponses converts occupancy history entries
func ToOccupancyRecordResponses(records []housing.OccupancyRecord) []OccupancyRecordResponse {
	responses := make([]OccupancyRecordResponse, len(records))
	for i, r := range records {
		responses[i] = OccupancyRecordResponse{
			ID:         r.ID,
			RoomID:     r.RoomID,
			PropertyID: r.PropertyID,
			TenantID:   r.TenantID,
			Type:       r.Type,
			RequestID:  r.RequestID,
			OccurredAt: r.OccurredAt,
		}
	}
	return responses
}

// ToRequestResponse converts a domain Request to RequestResponse
func ToRequestResponse(r *request.Request) RequestResponse {
	resp := RequestResponse{
		ID:               r.ID,
		TenantID:         r.TenantID,
		Kind:             r.Kind(),
		Status:           r.Status,
		RequestedAt:      r.RequestedAt,
		ApplicantName:    r.Applicant.Name,
		ApplicantContact: r.Applicant.Contact,
		Version:          r.Version,
		UpdatedAt:        r.UpdatedAt,
	}
	switch d := r.Details.(type) {
	case request.NewAssignment:
		resp.TargetRoomID = &d.TargetRoomID
	case request.Transfer:
		resp.SourceRoomID = &d.SourceRoomID
		resp.TargetRoomID = &d.TargetRoomID
	case request.MoveOut:
		resp.SourceRoomID = &d.SourceRoomID
		resp.PlannedMoveOutDate = &d.PlannedMoveOutDate
	}
	if r.Response != nil {
		resp.AdminResponse = &AdminResponseDTO{
			Message:     r.Response.Message,
			RespondedAt: r.Response.RespondedAt,
			RespondedBy: r.Response.RespondedBy,
		}
	}
	return resp
}

// ToRequestResponses converts a slice of requests
func ToRequestResponses(requests []request.Request) []RequestResponse {
	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToRequestResponse(&requests[i])
	}
	return responses
}

// ParseDate parses YYYY-MM-DD or RFC 3339 input
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, request.ErrInvalidRequest.WithMessage("Invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// pageWindow returns the [start, end) slice bounds of a page over n items,
// clamped to [0, n]
func pageWindow(page, pageSize, n int) (int, int) {
	if page < 1 || pageSize < 1 || page-1 >= (n+pageSize-1)/pageSize {
		return n, n
	}
	start := (page - 1) * pageSize
	return start, min(start+pageSize, n)
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > shared.MaxPage {
		page = shared.MaxPage
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
