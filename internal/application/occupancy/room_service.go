package occupancy

import (
	"context"
	"errors"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoomService is the room registry: it owns room capacity and occupant
// membership. Every occupant mutation holds the room's lock, and the
// tenant's lock for additions, for the whole transaction.
type RoomService struct {
	coordinator
	roomRepo   housing.RoomRepository
	recordRepo housing.OccupancyRecordRepository
}

// NewRoomService creates a new RoomService
func NewRoomService(
	roomRepo housing.RoomRepository,
	recordRepo housing.OccupancyRecordRepository,
	txScope TransactionScope,
	locker Locker,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		coordinator: newCoordinator(txScope, locker, logger),
		roomRepo:    roomRepo,
		recordRepo:  recordRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RoomService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateRoom creates an empty room in an existing property
func (s *RoomService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*RoomResponse, error) {
	room, err := housing.NewRoom(req.PropertyID, req.Capacity, housing.RoomDetails{
		Name:        req.Name,
		Facilities:  req.Facilities,
		Price:       req.Price,
		Description: req.Description,
	}, s.now())
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.PropertyRepo().ExistsByID(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		if !exists {
			return housing.ErrPropertyNotFound.WithDetail("property_id", req.PropertyID.String())
		}
		return repos.RoomRepo().Create(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, room)

	s.logger.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("property_id", room.PropertyID.String()),
		zap.Int("capacity", room.Capacity),
	)
	resp := ToRoomResponse(room)
	return &resp, nil
}

// GetRoom returns a room with its derived status
func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*RoomResponse, error) {
	room, err := s.roomRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRoomResponse(room)
	return &resp, nil
}

// ListRooms returns rooms matching the filter and the total match count.
// Status is derived, never stored, so the status filter is applied to the
// loaded rooms rather than in the query.
func (s *RoomService) ListRooms(ctx context.Context, f RoomListFilter) ([]RoomResponse, int64, error) {
	page, pageSize := normalizePaging(f.Page, f.PageSize)

	filter := shared.DefaultFilter()
	filter.OrderDir = "asc"
	if f.PropertyID != nil {
		filter.Filters["property_id"] = *f.PropertyID
	}
	filter.Page, filter.PageSize = 0, 0

	rooms, err := s.roomRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]housing.Room, 0, len(rooms))
	for i := range rooms {
		if f.Status == nil || rooms[i].Status() == *f.Status {
			matched = append(matched, rooms[i])
		}
	}

	total := int64(len(matched))
	start, end := pageWindow(page, pageSize, len(matched))
	return ToRoomResponses(matched[start:end]), total, nil
}

// UpdateRoom replaces a room's descriptive metadata
func (s *RoomService) UpdateRoom(ctx context.Context, id uuid.UUID, req UpdateRoomRequest) (*RoomResponse, error) {
	return s.mutateRoom(ctx, id, []string{RoomKey(id)}, func(_ TransactionalRepositories, room *housing.Room) error {
		return room.UpdateDetails(housing.RoomDetails{
			Name:        req.Name,
			Facilities:  req.Facilities,
			Price:       req.Price,
			Description: req.Description,
		}, s.now())
	})
}

// SetMaintenance sets the advisory maintenance flag
func (s *RoomService) SetMaintenance(ctx context.Context, id uuid.UUID, flag bool) (*RoomResponse, error) {
	resp, err := s.mutateRoom(ctx, id, []string{RoomKey(id)}, func(_ TransactionalRepositories, room *housing.Room) error {
		room.SetMaintenance(flag, s.now())
		return nil
	})
	if err == nil {
		s.logger.Info("Room maintenance flag set",
			zap.String("room_id", id.String()),
			zap.Bool("maintenance", flag),
		)
	}
	return resp, err
}

// AddOccupant places a tenant into a room. It fails with RoomFull when the
// room is at capacity, DuplicateOccupant when the tenant occupies any room and
// DuplicatePendingRequest while the tenant has a pending new assignment, which
// has to be answered first.
func (s *RoomService) AddOccupant(ctx context.Context, roomID uuid.UUID, req AddOccupantRequest) (*RoomResponse, error) {
	at := s.now()
	moveIn := at
	if req.MoveInDate != nil {
		moveIn = *req.MoveInDate
	}
	occupant, err := housing.NewOccupant(req.TenantID, req.Name, req.Contact, moveIn)
	if err != nil {
		return nil, err
	}

	keys := []string{RoomKey(roomID), TenantKey(req.TenantID)}
	return s.mutateRoom(ctx, roomID, keys, func(repos TransactionalRepositories, room *housing.Room) error {
		if err := ensureNotHoused(ctx, repos, occupant.TenantID); err != nil {
			return err
		}
		pending, err := repos.RequestRepo().ExistsPending(ctx, occupant.TenantID, request.KindNewAssignment)
		if err != nil {
			return err
		}
		if pending {
			return request.ErrDuplicatePendingRequest.
				WithMessage("Tenant has a pending new assignment request").
				WithDetail("tenant_id", occupant.TenantID.String()).
				WithDetail("kind", string(request.KindNewAssignment))
		}
		if err := room.AddOccupant(occupant, at); err != nil {
			return err
		}
		return repos.RecordRepo().Append(ctx,
			housing.NewOccupancyRecord(room, occupant.TenantID, housing.RecordTypeMoveIn, nil, at))
	})
}

// RemoveOccupant takes a tenant out of a room
func (s *RoomService) RemoveOccupant(ctx context.Context, roomID, tenantID uuid.UUID) (*RoomResponse, error) {
	at := s.now()
	keys := []string{RoomKey(roomID), TenantKey(tenantID)}
	return s.mutateRoom(ctx, roomID, keys, func(repos TransactionalRepositories, room *housing.Room) error {
		if _, _, err := room.RemoveOccupant(tenantID, at); err != nil {
			return err
		}
		return repos.RecordRepo().Append(ctx,
			housing.NewOccupancyRecord(room, tenantID, housing.RecordTypeMoveOut, nil, at))
	})
}

// DeleteRoom destroys an empty room
func (s *RoomService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	var room *housing.Room
	err := s.run(ctx, []string{RoomKey(id)}, func(repos TransactionalRepositories) error {
		var err error
		room, err = repos.RoomRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := room.MarkDeleted(s.now()); err != nil {
			return err
		}
		return repos.RoomRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, room)

	s.logger.Info("Room deleted", zap.String("room_id", id.String()))
	return nil
}

// GetHistory returns a room's occupancy history, newest first
func (s *RoomService) GetHistory(ctx context.Context, roomID uuid.UUID, page, pageSize int) ([]OccupancyRecordResponse, int64, error) {
	if _, err := s.roomRepo.FindByID(ctx, roomID); err != nil {
		return nil, 0, err
	}

	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = normalizePaging(page, pageSize)
	filter.OrderBy = "occurred_at"

	records, err := s.recordRepo.FindByRoom(ctx, roomID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.recordRepo.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, 0, err
	}
	return ToOccupancyRecordResponses(records), total, nil
}

// mutateRoom loads a room under keys, applies fn and saves it with an
// optimistic version check in the same transaction
func (s *RoomService) mutateRoom(
	ctx context.Context,
	roomID uuid.UUID,
	keys []string,
	fn func(repos TransactionalRepositories, room *housing.Room) error,
) (*RoomResponse, error) {
	var room *housing.Room
	err := s.run(ctx, keys, func(repos TransactionalRepositories) error {
		var err error
		room, err = repos.RoomRepo().FindByID(ctx, roomID)
		if err != nil {
			return err
		}
		version := room.Version
		if err := fn(repos, room); err != nil {
			return err
		}
		if room.Version == version {
			return nil
		}
		return repos.RoomRepo().SaveWithLock(ctx, room)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, room)

	resp := ToRoomResponse(room)
	return &resp, nil
}

// ensureNotHoused fails with DuplicateOccupant if the tenant occupies any
// room. The caller must hold the tenant's lock.
func ensureNotHoused(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID) error {
	current, err := repos.RoomRepo().FindByOccupant(ctx, tenantID)
	switch {
	case err == nil:
		return housing.TenantRoomError(housing.ErrDuplicateOccupant, current.ID, tenantID)
	case errors.Is(err, housing.ErrRoomNotFound):
		return nil
	default:
		return err
	}
}
