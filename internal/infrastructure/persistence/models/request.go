package models

import (
	"fmt"
	"time"

	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/google/uuid"
)

// OccupancyRequestModel is the persistence model for the Request aggregate
// root. Variant fields are nullable columns; Kind selects which are set.
// A partial unique index on (tenant_id, kind) WHERE status = 'PENDING'
// backs the one-pending-per-family rule.
type OccupancyRequestModel struct {
	AggregateModel
	TenantID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind               string     `gorm:"type:varchar(20);not null"`
	Status             string     `gorm:"type:varchar(20);not null;index"`
	RequestedAt        time.Time  `gorm:"not null;index"`
	SourceRoomID       *uuid.UUID `gorm:"type:uuid"`
	TargetRoomID       *uuid.UUID `gorm:"type:uuid"`
	PlannedMoveOutDate *time.Time `gorm:"type:date"`
	ApplicantName      string     `gorm:"type:varchar(200)"`
	ApplicantContact   string     `gorm:"type:varchar(200)"`
	ResponseMessage    *string    `gorm:"type:text"`
	RespondedAt        *time.Time `gorm:"index"`
	RespondedBy        *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (OccupancyRequestModel) TableName() string {
	return "occupancy_requests"
}

// ToDomain converts the persistence model to a domain Request.
func (m *OccupancyRequestModel) ToDomain() (*request.Request, error) {
	details, err := m.details()
	if err != nil {
		return nil, err
	}

	r := &request.Request{
		BaseAggregateRoot: m.ToAggregateRoot(),
		TenantID:          m.TenantID,
		RequestedAt:       m.RequestedAt,
		Status:            request.Status(m.Status),
		Details:           details,
		Applicant: request.Applicant{
			Name:    m.ApplicantName,
			Contact: m.ApplicantContact,
		},
	}
	if m.RespondedAt != nil {
		r.Response = &request.AdminResponse{
			RespondedAt: *m.RespondedAt,
			RespondedBy: m.RespondedBy,
		}
		if m.ResponseMessage != nil {
			r.Response.Message = *m.ResponseMessage
		}
	}
	return r, nil
}

func (m *OccupancyRequestModel) details() (request.Details, error) {
	switch request.Kind(m.Kind) {
	case request.KindNewAssignment:
		if m.TargetRoomID == nil {
			return nil, fmt.Errorf("request %s: missing target room", m.ID)
		}
		return request.NewAssignment{TargetRoomID: *m.TargetRoomID}, nil
	case request.KindTransfer:
		if m.SourceRoomID == nil || m.TargetRoomID == nil {
			return nil, fmt.Errorf("request %s: missing transfer rooms", m.ID)
		}
		return request.Transfer{SourceRoomID: *m.SourceRoomID, TargetRoomID: *m.TargetRoomID}, nil
	case request.KindMoveOut:
		if m.SourceRoomID == nil || m.PlannedMoveOutDate == nil {
			return nil, fmt.Errorf("request %s: missing move-out fields", m.ID)
		}
		return request.MoveOut{SourceRoomID: *m.SourceRoomID, PlannedMoveOutDate: *m.PlannedMoveOutDate}, nil
	default:
		return nil, fmt.Errorf("request %s: unknown kind %q", m.ID, m.Kind)
	}
}

// OccupancyRequestModelFromDomain creates a new persistence model from a domain Request.
func OccupancyRequestModelFromDomain(r *request.Request) *OccupancyRequestModel {
	m := &OccupancyRequestModel{
		TenantID:         r.TenantID,
		Kind:             string(r.Kind()),
		Status:           string(r.Status),
		RequestedAt:      r.RequestedAt,
		ApplicantName:    r.Applicant.Name,
		ApplicantContact: r.Applicant.Contact,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)

	switch d := r.Details.(type) {
	case request.NewAssignment:
		m.TargetRoomID = &d.TargetRoomID
	case request.Transfer:
		m.SourceRoomID = &d.SourceRoomID
		m.TargetRoomID = &d.TargetRoomID
	case request.MoveOut:
		m.SourceRoomID = &d.SourceRoomID
		m.PlannedMoveOutDate = &d.PlannedMoveOutDate
	}

	if r.Response != nil {
		message := r.Response.Message
		respondedAt := r.Response.RespondedAt
		m.ResponseMessage = &message
		m.RespondedAt = &respondedAt
		m.RespondedBy = r.Response.RespondedBy
	}
	return m
}
