package persistence

import (
	"context"

	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to fn shares the same transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error the
// transaction is rolled back, otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos occupancy.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// PropertyRepo returns the property repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PropertyRepo() housing.PropertyRepository {
	return NewGormPropertyRepository(r.tx)
}

// RoomRepo returns the room repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RoomRepo() housing.RoomRepository {
	return NewGormRoomRepository(r.tx)
}

// RecordRepo returns the occupancy history repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RecordRepo() housing.OccupancyRecordRepository {
	return NewGormOccupancyRecordRepository(r.tx)
}

// RequestRepo returns the request repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RequestRepo() request.Repository {
	return NewGormRequestRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ occupancy.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ occupancy.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
