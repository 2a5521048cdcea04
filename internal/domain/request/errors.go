package request

import "github.com/boardinghouse/backend/internal/domain/shared"

// Request lifecycle error kinds
var (
	ErrDuplicatePendingRequest    = shared.NewDomainError("DUPLICATE_PENDING_REQUEST", "Tenant already has a pending request of this kind")
	ErrRequestNotFound            = shared.NewDomainError("REQUEST_NOT_FOUND", "Request not found")
	ErrInvalidStateTransition     = shared.NewDomainError("INVALID_STATE_TRANSITION", "Request has already been responded to")
	ErrInvalidRequest             = shared.NewDomainError("INVALID_REQUEST", "Request is invalid")
	ErrInvalidDecision            = shared.NewDomainError("INVALID_DECISION", "Decision must be APPROVE or REJECT")
	ErrCapacityExceededAtApproval = shared.NewDomainError("CAPACITY_EXCEEDED_AT_APPROVAL", "Target room has no free capacity at approval time")
)
