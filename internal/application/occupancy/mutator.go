package occupancy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OccupancyMutator applies an approved request to the room registry. It runs
// inside the caller's transaction and re-validates capacity at that moment.
// On error nothing it touched may be committed; for transfers it also
// restores the source room itself before returning.
type OccupancyMutator struct {
	logger *zap.Logger
}

// NewOccupancyMutator creates a new OccupancyMutator
func NewOccupancyMutator(logger *zap.Logger) *OccupancyMutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OccupancyMutator{logger: logger}
}

// Apply performs the occupancy change for req and returns the rooms it
// modified. snapshot supplies the occupant's display fields for new
// assignments.
func (m *OccupancyMutator) Apply(
	ctx context.Context,
	repos TransactionalRepositories,
	req *request.Request,
	snapshot TenantProfile,
	at time.Time,
) ([]*housing.Room, error) {
	switch d := req.Details.(type) {
	case request.NewAssignment:
		room, err := m.assign(ctx, repos, req, d, snapshot, at)
		if err != nil {
			return nil, err
		}
		return []*housing.Room{room}, nil
	case request.Transfer:
		return m.transfer(ctx, repos, req, d, at)
	case request.MoveOut:
		room, err := m.moveOut(ctx, repos, req, d, at)
		if err != nil {
			return nil, err
		}
		return []*housing.Room{room}, nil
	default:
		return nil, fmt.Errorf("unsupported request details %T", req.Details)
	}
}

func (m *OccupancyMutator) assign(
	ctx context.Context,
	repos TransactionalRepositories,
	req *request.Request,
	d request.NewAssignment,
	snapshot TenantProfile,
	at time.Time,
) (*housing.Room, error) {
	room, err := repos.RoomRepo().FindByID(ctx, d.TargetRoomID)
	if err != nil {
		return nil, err
	}
	if err := ensureNotHoused(ctx, repos, req.TenantID); err != nil {
		return nil, err
	}

	occupant, err := housing.NewOccupant(req.TenantID, snapshot.Name, snapshot.Contact, at)
	if err != nil {
		return nil, err
	}
	if err := room.AddOccupant(occupant, at); err != nil {
		return nil, capacityAtApproval(err, room.ID)
	}
	if err := repos.RoomRepo().SaveWithLock(ctx, room); err != nil {
		return nil, err
	}
	if err := repos.RecordRepo().Append(ctx,
		housing.NewOccupancyRecord(room, req.TenantID, housing.RecordTypeMoveIn, &req.ID, at)); err != nil {
		return nil, err
	}
	return room, nil
}

// transfer checks the target first, then removes from the source and adds to
// the target. If anything after the removal fails, the occupant is put back
// into the source at its former position.
func (m *OccupancyMutator) transfer(
	ctx context.Context,
	repos TransactionalRepositories,
	req *request.Request,
	d request.Transfer,
	at time.Time,
) ([]*housing.Room, error) {
	target, err := repos.RoomRepo().FindByID(ctx, d.TargetRoomID)
	if err != nil {
		return nil, err
	}
	if !target.HasVacancy() {
		return nil, housing.RoomError(request.ErrCapacityExceededAtApproval, target.ID)
	}

	source, err := repos.RoomRepo().FindByID(ctx, d.SourceRoomID)
	if err != nil {
		return nil, err
	}
	occupant, position, err := source.RemoveOccupant(req.TenantID, at)
	if err != nil {
		return nil, err
	}
	if err := repos.RoomRepo().SaveWithLock(ctx, source); err != nil {
		return nil, err
	}

	if err := m.insertTransferred(ctx, repos, req, source, target, occupant, at); err != nil {
		if restoreErr := m.restore(ctx, repos, source, occupant, position, at); restoreErr != nil {
			m.logger.Error("Failed to restore occupant after transfer failure",
				zap.String("request_id", req.ID.String()),
				zap.String("room_id", source.ID.String()),
				zap.String("tenant_id", req.TenantID.String()),
				zap.Error(restoreErr),
			)
			return nil, errors.Join(err, restoreErr)
		}
		return nil, err
	}

	return []*housing.Room{source, target}, nil
}

func (m *OccupancyMutator) insertTransferred(
	ctx context.Context,
	repos TransactionalRepositories,
	req *request.Request,
	source, target *housing.Room,
	occupant housing.Occupant,
	at time.Time,
) error {
	if err := ensureNotHoused(ctx, repos, req.TenantID); err != nil {
		return err
	}
	if err := target.AddOccupant(occupant.MovedIn(at), at); err != nil {
		return capacityAtApproval(err, target.ID)
	}
	if err := repos.RoomRepo().SaveWithLock(ctx, target); err != nil {
		return err
	}
	return repos.RecordRepo().Append(ctx,
		housing.NewOccupancyRecord(source, req.TenantID, housing.RecordTypeTransferOut, &req.ID, at),
		housing.NewOccupancyRecord(target, req.TenantID, housing.RecordTypeTransferIn, &req.ID, at),
	)
}

func (m *OccupancyMutator) restore(
	ctx context.Context,
	repos TransactionalRepositories,
	source *housing.Room,
	occupant housing.Occupant,
	position int,
	at time.Time,
) error {
	if err := source.RestoreOccupant(occupant, position, at); err != nil {
		return err
	}
	return repos.RoomRepo().SaveWithLock(ctx, source)
}

func (m *OccupancyMutator) moveOut(
	ctx context.Context,
	repos TransactionalRepositories,
	req *request.Request,
	d request.MoveOut,
	at time.Time,
) (*housing.Room, error) {
	room, err := repos.RoomRepo().FindByID(ctx, d.SourceRoomID)
	if err != nil {
		return nil, err
	}
	if _, _, err := room.RemoveOccupant(req.TenantID, at); err != nil {
		return nil, err
	}
	if err := repos.RoomRepo().SaveWithLock(ctx, room); err != nil {
		return nil, err
	}
	if err := repos.RecordRepo().Append(ctx,
		housing.NewOccupancyRecord(room, req.TenantID, housing.RecordTypeMoveOut, &req.ID, at)); err != nil {
		return nil, err
	}
	return room, nil
}

// capacityAtApproval turns a RoomFull from the registry into the approval
// failure kind; other errors pass through.
func capacityAtApproval(err error, roomID uuid.UUID) error {
	if errors.Is(err, housing.ErrRoomFull) {
		return housing.RoomError(request.ErrCapacityExceededAtApproval, roomID)
	}
	return err
}
