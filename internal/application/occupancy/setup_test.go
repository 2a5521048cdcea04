package occupancy_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/boardinghouse/backend/internal/infrastructure/lock"
	"github.com/boardinghouse/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv wires the occupancy services over a migrated in-memory SQLite
// database and an in-process locker.
type testEnv struct {
	db         *gorm.DB
	roomRepo   *persistence.GormRoomRepository
	recordRepo *persistence.GormOccupancyRecordRepository
	properties *occupancy.PropertyService
	rooms      *occupancy.RoomService
	requests   *occupancy.RequestService
	events     *recordingPublisher
	propertyID uuid.UUID
}

type envOption func(*envSettings)

type envSettings struct {
	wrapScope func(occupancy.TransactionScope) occupancy.TransactionScope
	directory occupancy.TenantDirectory
}

func withScope(wrap func(occupancy.TransactionScope) occupancy.TransactionScope) envOption {
	return func(s *envSettings) { s.wrapScope = wrap }
}

func withDirectory(d occupancy.TenantDirectory) envOption {
	return func(s *envSettings) { s.directory = d }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	settings := &envSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	database, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, persistence.AutoMigrate(database.DB))

	db := database.DB
	propertyRepo := persistence.NewGormPropertyRepository(db)
	roomRepo := persistence.NewGormRoomRepository(db)
	recordRepo := persistence.NewGormOccupancyRecordRepository(db)
	requestRepo := persistence.NewGormRequestRepository(db)

	var scope occupancy.TransactionScope = persistence.NewGormTransactionScope(db)
	if settings.wrapScope != nil {
		scope = settings.wrapScope(scope)
	}

	env := newServices(db, propertyRepo, roomRepo, recordRepo, requestRepo, scope, settings.directory)
	env.propertyID = env.createProperty(t)
	return env
}

func newServices(
	db *gorm.DB,
	propertyRepo housing.PropertyRepository,
	roomRepo *persistence.GormRoomRepository,
	recordRepo *persistence.GormOccupancyRecordRepository,
	requestRepo *persistence.GormRequestRepository,
	scope occupancy.TransactionScope,
	directory occupancy.TenantDirectory,
) *testEnv {
	logger := zap.NewNop()
	locker := lock.NewMemoryLocker()
	events := &recordingPublisher{}

	properties := occupancy.NewPropertyService(propertyRepo, scope, locker, logger)
	rooms := occupancy.NewRoomService(roomRepo, recordRepo, scope, locker, logger)
	requests := occupancy.NewRequestService(requestRepo, occupancy.NewOccupancyMutator(logger), scope, locker, logger)
	properties.SetEventPublisher(events)
	rooms.SetEventPublisher(events)
	requests.SetEventPublisher(events)
	if directory != nil {
		requests.SetDirectory(directory)
	}

	return &testEnv{
		db:         db,
		roomRepo:   roomRepo,
		recordRepo: recordRepo,
		properties: properties,
		rooms:      rooms,
		requests:   requests,
		events:     events,
	}
}

func (e *testEnv) createProperty(t *testing.T) uuid.UUID {
	t.Helper()
	p, err := e.properties.Create(context.Background(), occupancy.CreatePropertyRequest{
		Name:    "Maple House",
		Address: "12 Maple St",
	})
	require.NoError(t, err)
	return p.ID
}

func (e *testEnv) createRoom(t *testing.T, capacity int) uuid.UUID {
	t.Helper()
	room, err := e.rooms.CreateRoom(context.Background(), occupancy.CreateRoomRequest{
		PropertyID: e.propertyID,
		Capacity:   capacity,
		Name:       "Room",
	})
	require.NoError(t, err)
	return room.ID
}

func (e *testEnv) addOccupant(t *testing.T, roomID, tenantID uuid.UUID) {
	t.Helper()
	_, err := e.rooms.AddOccupant(context.Background(), roomID, occupancy.AddOccupantRequest{
		TenantID: tenantID,
		Name:     "Tenant " + tenantID.String()[:8],
	})
	require.NoError(t, err)
}

func (e *testEnv) room(t *testing.T, roomID uuid.UUID) *occupancy.RoomResponse {
	t.Helper()
	room, err := e.rooms.GetRoom(context.Background(), roomID)
	require.NoError(t, err)
	return room
}

func (e *testEnv) occupantIDs(t *testing.T, roomID uuid.UUID) []uuid.UUID {
	t.Helper()
	room := e.room(t, roomID)
	ids := make([]uuid.UUID, len(room.Occupants))
	for i, o := range room.Occupants {
		ids[i] = o.TenantID
	}
	return ids
}

func (e *testEnv) submitAssignment(t *testing.T, tenantID, roomID uuid.UUID) *occupancy.RequestResponse {
	t.Helper()
	req, err := e.requests.SubmitNewAssignment(context.Background(), occupancy.SubmitNewAssignmentRequest{
		TenantID:     tenantID,
		TargetRoomID: roomID,
		Name:         "Applicant",
		Contact:      "applicant@example.com",
	})
	require.NoError(t, err)
	return req
}

func (e *testEnv) approve(ctx context.Context, id uuid.UUID) (*occupancy.RequestResponse, error) {
	return e.requests.Approve(ctx, id, "ok", nil)
}

func nextWeek() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format(time.DateOnly)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// mockDirectory is a testify mock of the tenant directory
type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Lookup(ctx context.Context, tenantID uuid.UUID) (*occupancy.TenantProfile, error) {
	args := m.Called(ctx, tenantID)
	if p, ok := args.Get(0).(*occupancy.TenantProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// faultScope injects a SaveWithLock failure for one room into every
// transaction of the wrapped scope
type faultScope struct {
	inner occupancy.TransactionScope
	mu    sync.Mutex
	room  uuid.UUID
	err   error
}

func (s *faultScope) failSavesOf(roomID uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room, s.err = roomID, err
}

func (s *faultScope) Execute(ctx context.Context, fn func(repos occupancy.TransactionalRepositories) error) error {
	s.mu.Lock()
	roomID, injected := s.room, s.err
	s.mu.Unlock()

	return s.inner.Execute(ctx, func(repos occupancy.TransactionalRepositories) error {
		return fn(faultRepos{
			TransactionalRepositories: repos,
			rooms:                     &failingRoomRepo{RoomRepository: repos.RoomRepo(), failOn: roomID, err: injected},
		})
	})
}

type faultRepos struct {
	occupancy.TransactionalRepositories
	rooms housing.RoomRepository
}

func (r faultRepos) RoomRepo() housing.RoomRepository { return r.rooms }

type failingRoomRepo struct {
	housing.RoomRepository
	failOn uuid.UUID
	err    error
}

func (r *failingRoomRepo) SaveWithLock(ctx context.Context, room *housing.Room) error {
	if r.err != nil && room.ID == r.failOn {
		return r.err
	}
	return r.RoomRepository.SaveWithLock(ctx, room)
}
