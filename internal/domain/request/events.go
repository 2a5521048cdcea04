package request

import (
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeRequest is the aggregate type of occupancy requests
const AggregateTypeRequest = "OccupancyRequest"

// Event type constants
const (
	EventTypeRequestSubmitted = "RequestSubmitted"
	EventTypeRequestApproved  = "RequestApproved"
	EventTypeRequestRejected  = "RequestRejected"
	EventTypeApprovalFailed   = "RequestApprovalFailed"
)

// RequestSubmittedEvent is raised when a request is accepted as pending
type RequestSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID   `json:"request_id"`
	TenantID  uuid.UUID   `json:"tenant_id"`
	Kind      Kind        `json:"kind"`
	RoomIDs   []uuid.UUID `json:"room_ids"`
}

// NewRequestSubmittedEvent creates a new RequestSubmittedEvent
func NewRequestSubmittedEvent(r *Request) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestSubmitted, AggregateTypeRequest, r.ID, r.RequestedAt),
		RequestID:       r.ID,
		TenantID:        r.TenantID,
		Kind:            r.Kind(),
		RoomIDs:         r.Details.RoomIDs(),
	}
}

// EventType returns the event type name
func (e *RequestSubmittedEvent) EventType() string {
	return EventTypeRequestSubmitted
}

// RequestApprovedEvent is raised after an approval and its occupancy change
// have been committed
type RequestApprovedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID   `json:"request_id"`
	TenantID  uuid.UUID   `json:"tenant_id"`
	Kind      Kind        `json:"kind"`
	RoomIDs   []uuid.UUID `json:"room_ids"`
	Message   string      `json:"message"`
}

// NewRequestApprovedEvent creates a new RequestApprovedEvent
func NewRequestApprovedEvent(r *Request) *RequestApprovedEvent {
	return &RequestApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestApproved, AggregateTypeRequest, r.ID, r.Response.RespondedAt),
		RequestID:       r.ID,
		TenantID:        r.TenantID,
		Kind:            r.Kind(),
		RoomIDs:         r.Details.RoomIDs(),
		Message:         r.Response.Message,
	}
}

// EventType returns the event type name
func (e *RequestApprovedEvent) EventType() string {
	return EventTypeRequestApproved
}

// RequestRejectedEvent is raised when a request is rejected
type RequestRejectedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID `json:"request_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
}

// NewRequestRejectedEvent creates a new RequestRejectedEvent
func NewRequestRejectedEvent(r *Request) *RequestRejectedEvent {
	return &RequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestRejected, AggregateTypeRequest, r.ID, r.Response.RespondedAt),
		RequestID:       r.ID,
		TenantID:        r.TenantID,
		Kind:            r.Kind(),
		Message:         r.Response.Message,
	}
}

// EventType returns the event type name
func (e *RequestRejectedEvent) EventType() string {
	return EventTypeRequestRejected
}

// ApprovalFailedEvent is raised when an approval could not be applied and
// the request stayed pending
type ApprovalFailedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID `json:"request_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Kind      Kind      `json:"kind"`
	ErrorCode string    `json:"error_code"`
}

// NewApprovalFailedEvent creates a new ApprovalFailedEvent
func NewApprovalFailedEvent(r *Request, errorCode string, at time.Time) *ApprovalFailedEvent {
	return &ApprovalFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApprovalFailed, AggregateTypeRequest, r.ID, at),
		RequestID:       r.ID,
		TenantID:        r.TenantID,
		Kind:            r.Kind(),
		ErrorCode:       errorCode,
	}
}

// EventType returns the event type name
func (e *ApprovalFailedEvent) EventType() string {
	return EventTypeApprovalFailed
}
