package occupancy

import (
	"context"
	"errors"
	"fmt"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService is the request store: it validates and records
// submissions and drives the pending to terminal transition, delegating
// approvals to the OccupancyMutator inside the same transaction.
type RequestService struct {
	coordinator
	requestRepo request.Repository
	mutator     *OccupancyMutator
	directory   TenantDirectory
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo request.Repository,
	mutator *OccupancyMutator,
	txScope TransactionScope,
	locker Locker,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		coordinator: newCoordinator(txScope, locker, logger),
		requestRepo: requestRepo,
		mutator:     mutator,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDirectory sets the tenant directory used to refresh occupant
// snapshots on approval (optional)
func (s *RequestService) SetDirectory(directory TenantDirectory) {
	s.directory = directory
}

// SubmitNewAssignment submits a request for a first room
func (s *RequestService) SubmitNewAssignment(ctx context.Context, req SubmitNewAssignmentRequest) (*RequestResponse, error) {
	return s.Submit(ctx, req.TenantID, request.NewAssignment{TargetRoomID: req.TargetRoomID},
		request.Applicant{Name: req.Name, Contact: req.Contact})
}

// SubmitTransfer submits a request to move between rooms
func (s *RequestService) SubmitTransfer(ctx context.Context, req SubmitTransferRequest) (*RequestResponse, error) {
	return s.Submit(ctx, req.TenantID, request.Transfer{
		SourceRoomID: req.SourceRoomID,
		TargetRoomID: req.TargetRoomID,
	}, request.Applicant{})
}

// SubmitMoveOut submits a request to vacate a room
func (s *RequestService) SubmitMoveOut(ctx context.Context, req SubmitMoveOutRequest) (*RequestResponse, error) {
	planned, err := ParseDate(req.PlannedMoveOutDate)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, req.TenantID, request.MoveOut{
		SourceRoomID:       req.SourceRoomID,
		PlannedMoveOutDate: planned,
	}, request.Applicant{})
}

// Submit validates a request against current occupancy without changing it
// and stores it as PENDING. The duplicate check and the insert share the
// tenant's lock and one transaction.
func (s *RequestService) Submit(ctx context.Context, tenantID uuid.UUID, details request.Details, applicant request.Applicant) (*RequestResponse, error) {
	req, err := request.NewRequest(tenantID, details, applicant, s.now())
	if err != nil {
		return nil, err
	}

	err = s.run(ctx, []string{TenantKey(tenantID)}, func(repos TransactionalRepositories) error {
		pending, err := repos.RequestRepo().ExistsPending(ctx, tenantID, req.Kind())
		if err != nil {
			return err
		}
		if pending {
			return request.ErrDuplicatePendingRequest.
				WithDetail("tenant_id", tenantID.String()).
				WithDetail("kind", string(req.Kind()))
		}
		if err := checkSubmission(ctx, repos, req); err != nil {
			return err
		}
		return repos.RequestRepo().Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, req)

	s.logger.Info("Occupancy request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("kind", string(req.Kind())),
	)
	resp := ToRequestResponse(req)
	return &resp, nil
}

// checkSubmission runs the variant-specific occupancy preconditions
func checkSubmission(ctx context.Context, repos TransactionalRepositories, req *request.Request) error {
	switch d := req.Details.(type) {
	case request.NewAssignment:
		if err := ensureNotHoused(ctx, repos, req.TenantID); err != nil {
			return err
		}
		target, err := repos.RoomRepo().FindByID(ctx, d.TargetRoomID)
		if err != nil {
			return err
		}
		if !target.HasVacancy() {
			return housing.RoomError(housing.ErrRoomFull, target.ID)
		}
	case request.Transfer:
		if err := ensureOccupies(ctx, repos, d.SourceRoomID, req.TenantID); err != nil {
			return err
		}
		if _, err := repos.RoomRepo().FindByID(ctx, d.TargetRoomID); err != nil {
			return err
		}
	case request.MoveOut:
		return ensureOccupies(ctx, repos, d.SourceRoomID, req.TenantID)
	}
	return nil
}

func ensureOccupies(ctx context.Context, repos TransactionalRepositories, roomID, tenantID uuid.UUID) error {
	room, err := repos.RoomRepo().FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasOccupant(tenantID) {
		return housing.TenantRoomError(housing.ErrOccupantNotFound, roomID, tenantID)
	}
	return nil
}

// Approve approves a pending request
func (s *RequestService) Approve(ctx context.Context, id uuid.UUID, message string, respondedBy *uuid.UUID) (*RequestResponse, error) {
	return s.Respond(ctx, id, request.DecisionApprove, message, respondedBy)
}

// Reject rejects a pending request
func (s *RequestService) Reject(ctx context.Context, id uuid.UUID, message string, respondedBy *uuid.UUID) (*RequestResponse, error) {
	return s.Respond(ctx, id, request.DecisionReject, message, respondedBy)
}

// Respond moves a pending request to a terminal state. On approval the
// occupancy change is applied first in the same transaction; if it fails the
// request stays PENDING and the error is returned unchanged.
func (s *RequestService) Respond(ctx context.Context, id uuid.UUID, decision request.Decision, message string, respondedBy *uuid.UUID) (*RequestResponse, error) {
	if decision != request.DecisionApprove && decision != request.DecisionReject {
		return nil, request.ErrInvalidDecision
	}

	// A first read tells which rooms and tenant to lock; the request is
	// re-read under those locks before anything is decided.
	peek, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !peek.IsPending() {
		return nil, invalidTransition(peek)
	}

	snapshot := TenantProfile{
		TenantID: peek.TenantID,
		Name:     peek.Applicant.Name,
		Contact:  peek.Applicant.Contact,
	}
	if decision == request.DecisionApprove && peek.Kind() == request.KindNewAssignment && s.directory != nil {
		profile, err := s.directory.Lookup(ctx, peek.TenantID)
		if err != nil {
			return nil, fmt.Errorf("lookup tenant %s: %w", peek.TenantID, err)
		}
		snapshot = *profile
	}

	keys := []string{RequestKey(id), TenantKey(peek.TenantID)}
	for _, roomID := range peek.Details.RoomIDs() {
		keys = append(keys, RoomKey(roomID))
	}

	var (
		req   *request.Request
		rooms []*housing.Room
	)
	err = s.run(ctx, keys, func(repos TransactionalRepositories) error {
		var err error
		req, err = repos.RequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !req.IsPending() {
			return invalidTransition(req)
		}

		at := s.now()
		if decision == request.DecisionReject {
			if err := req.Reject(message, respondedBy, at); err != nil {
				return err
			}
			return repos.RequestRepo().SaveWithLock(ctx, req)
		}

		rooms, err = s.mutator.Apply(ctx, repos, req, snapshot, at)
		if err != nil {
			return err
		}
		if err := req.Approve(message, respondedBy, at); err != nil {
			return err
		}
		return repos.RequestRepo().SaveWithLock(ctx, req)
	})
	if err != nil {
		s.reportFailure(ctx, peek, decision, err)
		return nil, err
	}

	aggregates := []shared.AggregateRoot{req}
	for _, room := range rooms {
		aggregates = append(aggregates, room)
	}
	s.publish(ctx, aggregates...)

	s.logger.Info("Occupancy request responded",
		zap.String("request_id", req.ID.String()),
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("kind", string(req.Kind())),
		zap.String("status", string(req.Status)),
	)
	resp := ToRequestResponse(req)
	return &resp, nil
}

// reportFailure logs a failed response with the error kind and room, and
// announces approvals that lost a capacity race.
func (s *RequestService) reportFailure(ctx context.Context, req *request.Request, decision request.Decision, err error) {
	fields := []zap.Field{
		zap.String("request_id", req.ID.String()),
		zap.String("tenant_id", req.TenantID.String()),
		zap.String("decision", string(decision)),
		zap.Error(err),
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		fields = append(fields, zap.String("error_code", de.Code))
		if roomID, ok := de.Details["room_id"]; ok {
			fields = append(fields, zap.String("room_id", roomID))
		}
	}
	s.logger.Warn("Occupancy request response failed", fields...)

	if errors.Is(err, request.ErrCapacityExceededAtApproval) && s.eventPublisher != nil {
		event := request.NewApprovalFailedEvent(req, request.ErrCapacityExceededAtApproval.Code, s.now())
		if pubErr := s.eventPublisher.Publish(ctx, event); pubErr != nil {
			s.logger.Warn("Failed to publish approval failure", zap.Error(pubErr))
		}
	}
}

func invalidTransition(req *request.Request) error {
	return request.ErrInvalidStateTransition.
		WithMessage("Request is already %s", req.Status).
		WithDetail("request_id", req.ID.String())
}

// GetByID returns a request
func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRequestResponse(req)
	return &resp, nil
}

// List returns requests matching the filter, newest first
func (s *RequestService) List(ctx context.Context, f RequestListFilter) ([]RequestResponse, int64, error) {
	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = normalizePaging(f.Page, f.PageSize)
	filter.OrderBy = "requested_at"
	if f.TenantID != nil {
		filter.Filters["tenant_id"] = *f.TenantID
	}
	if f.Status != nil {
		filter.Filters["status"] = *f.Status
	}
	if f.Kind != nil {
		filter.Filters["kind"] = *f.Kind
	}

	requests, err := s.requestRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToRequestResponses(requests), total, nil
}
