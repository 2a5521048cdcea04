package occupancy

import (
	"context"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
)

// TransactionScope provides transactional access to the occupancy repositories.
// All repository operations inside Execute commit or roll back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an error,
	// the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories sharing one transaction.
type TransactionalRepositories interface {
	PropertyRepo() housing.PropertyRepository
	RoomRepo() housing.RoomRepository
	RecordRepo() housing.OccupancyRecordRepository
	RequestRepo() request.Repository
}

// NoOpTransactionScope runs functions against plain repositories without a
// transaction. Useful for tests.
type NoOpTransactionScope struct {
	propertyRepo housing.PropertyRepository
	roomRepo     housing.RoomRepository
	recordRepo   housing.OccupancyRecordRepository
	requestRepo  request.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	propertyRepo housing.PropertyRepository,
	roomRepo housing.RoomRepository,
	recordRepo housing.OccupancyRecordRepository,
	requestRepo request.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		propertyRepo: propertyRepo,
		roomRepo:     roomRepo,
		recordRepo:   recordRepo,
		requestRepo:  requestRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PropertyRepo returns the property repository.
func (s *NoOpTransactionScope) PropertyRepo() housing.PropertyRepository {
	return s.propertyRepo
}

// RoomRepo returns the room repository.
func (s *NoOpTransactionScope) RoomRepo() housing.RoomRepository {
	return s.roomRepo
}

// RecordRepo returns the occupancy record repository.
func (s *NoOpTransactionScope) RecordRepo() housing.OccupancyRecordRepository {
	return s.recordRepo
}

// RequestRepo returns the request repository.
func (s *NoOpTransactionScope) RequestRepo() request.Repository {
	return s.requestRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
