package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a request
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusPending || s.IsTerminal()
}

// ParseStatus parses a case-insensitive status name
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("unknown request status %q", s)
	}
	return st, nil
}

// Decision is an administrator's answer to a pending request
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// ParseDecision parses a case-insensitive decision
func ParseDecision(s string) (Decision, error) {
	d := Decision(strings.ToUpper(strings.TrimSpace(s)))
	if d != DecisionApprove && d != DecisionReject {
		return "", ErrInvalidDecision
	}
	return d, nil
}

// Applicant is the contact snapshot supplied with a submission
type Applicant struct {
	Name    string
	Contact string
}

// AdminResponse is recorded exactly once, on the terminal transition
type AdminResponse struct {
	Message     string
	RespondedAt time.Time
	RespondedBy *uuid.UUID
}

// Request is a tenant-initiated proposal to change occupancy. It is created
// PENDING, transitions once to APPROVED or REJECTED, and is never deleted.
type Request struct {
	shared.BaseAggregateRoot
	TenantID    uuid.UUID
	RequestedAt time.Time
	Status      Status
	Details     Details
	Applicant   Applicant
	Response    *AdminResponse
}

// NewRequest validates the variant and creates a pending request.
// Occupancy preconditions are checked by the caller.
func NewRequest(tenantID uuid.UUID, details Details, applicant Applicant, at time.Time) (*Request, error) {
	if tenantID == uuid.Nil {
		return nil, ErrInvalidRequest.WithMessage("Tenant ID is required")
	}
	if details == nil {
		return nil, ErrInvalidRequest.WithMessage("Request details are required")
	}
	if err := details.validate(at); err != nil {
		return nil, err
	}

	r := &Request{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(at),
		TenantID:          tenantID,
		RequestedAt:       at,
		Status:            StatusPending,
		Details:           details,
		Applicant: Applicant{
			Name:    strings.TrimSpace(applicant.Name),
			Contact: strings.TrimSpace(applicant.Contact),
		},
	}
	r.AddDomainEvent(NewRequestSubmittedEvent(r))

	return r, nil
}

// Kind returns the request family
func (r *Request) Kind() Kind {
	return r.Details.Kind()
}

// IsPending reports whether the request still awaits a response
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// Approve moves the request to APPROVED
func (r *Request) Approve(message string, by *uuid.UUID, at time.Time) error {
	if err := r.respond(StatusApproved, message, by, at); err != nil {
		return err
	}
	r.AddDomainEvent(NewRequestApprovedEvent(r))
	return nil
}

// Reject moves the request to REJECTED
func (r *Request) Reject(message string, by *uuid.UUID, at time.Time) error {
	if err := r.respond(StatusRejected, message, by, at); err != nil {
		return err
	}
	r.AddDomainEvent(NewRequestRejectedEvent(r))
	return nil
}

func (r *Request) respond(to Status, message string, by *uuid.UUID, at time.Time) error {
	if !r.IsPending() {
		return ErrInvalidStateTransition.
			WithMessage("Request is already %s", r.Status).
			WithDetail("request_id", r.ID.String())
	}
	r.Status = to
	r.Response = &AdminResponse{
		Message:     strings.TrimSpace(message),
		RespondedAt: at,
		RespondedBy: by,
	}
	r.Touch(at)
	r.IncrementVersion()
	return nil
}
