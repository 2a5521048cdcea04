package persistence

import (
	"context"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOccupancyRecordRepository implements OccupancyRecordRepository using GORM
type GormOccupancyRecordRepository struct {
	db *gorm.DB
}

// NewGormOccupancyRecordRepository creates a new GormOccupancyRecordRepository
func NewGormOccupancyRecordRepository(db *gorm.DB) *GormOccupancyRecordRepository {
	return &GormOccupancyRecordRepository{db: db}
}

// Append inserts history entries
func (r *GormOccupancyRecordRepository) Append(ctx context.Context, records ...*housing.OccupancyRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]*models.OccupancyRecordModel, len(records))
	for i, rec := range records {
		rows[i] = models.OccupancyRecordModelFromDomain(rec)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindByRoom returns a room's history, newest first by default
func (r *GormOccupancyRecordRepository) FindByRoom(ctx context.Context, roomID uuid.UUID, filter shared.Filter) ([]housing.OccupancyRecord, error) {
	field := ValidateSortField(filter.OrderBy, RecordSortFields, "occurred_at")
	query := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Order("id ASC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.OccupancyRecordModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

// CountByRoom counts a room's history entries
func (r *GormOccupancyRecordRepository) CountByRoom(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OccupancyRecordModel{}).
		Where("room_id = ?", roomID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByTenant returns a tenant's history, oldest first
func (r *GormOccupancyRecordRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) ([]housing.OccupancyRecord, error) {
	var rows []models.OccupancyRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("occurred_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func toRecords(rows []models.OccupancyRecordModel) []housing.OccupancyRecord {
	records := make([]housing.OccupancyRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records
}

// Ensure GormOccupancyRecordRepository implements OccupancyRecordRepository
var _ housing.OccupancyRecordRepository = (*GormOccupancyRecordRepository)(nil)
