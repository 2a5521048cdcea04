package persistence

import (
	"context"
	"errors"

	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRequestRepository implements request.Repository using GORM
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.Request, error) {
	var model models.OccupancyRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrRequestNotFound.WithDetail("request_id", id.String())
		}
		return nil, err
	}
	return model.ToDomain()
}

// ExistsPending checks whether the tenant has a pending request of the kind
func (r *GormRequestRepository) ExistsPending(ctx context.Context, tenantID uuid.UUID, kind request.Kind) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OccupancyRequestModel{}).
		Where("tenant_id = ? AND kind = ? AND status = ?", tenantID, string(kind), string(request.StatusPending)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all requests matching the filter
func (r *GormRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]request.Request, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OccupancyRequestModel{}), filter)
	field := ValidateSortField(filter.OrderBy, RequestSortFields, "requested_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.OccupancyRequestModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	requests := make([]request.Request, 0, len(rows))
	for i := range rows {
		req, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, nil
}

// Count counts requests matching the filter
func (r *GormRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OccupancyRequestModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new request. The partial unique index turns a concurrent
// duplicate into ErrDuplicatePendingRequest.
func (r *GormRequestRepository) Create(ctx context.Context, req *request.Request) error {
	if err := r.db.WithContext(ctx).Create(models.OccupancyRequestModelFromDomain(req)).Error; err != nil {
		if isUniqueViolation(err) {
			return request.ErrDuplicatePendingRequest.
				WithDetail("tenant_id", req.TenantID.String()).
				WithDetail("kind", string(req.Kind()))
		}
		return err
	}
	return nil
}

// SaveWithLock saves a status transition with optimistic locking (checks version)
func (r *GormRequestRepository) SaveWithLock(ctx context.Context, req *request.Request) error {
	model := models.OccupancyRequestModelFromDomain(req)
	result := r.db.WithContext(ctx).
		Model(&models.OccupancyRequestModel{}).
		Where("id = ? AND version = ?", req.ID, req.Version-1).
		Updates(map[string]any{
			"status":           model.Status,
			"response_message": model.ResponseMessage,
			"responded_at":     model.RespondedAt,
			"responded_by":     model.RespondedBy,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithDetail("request_id", req.ID.String())
	}
	return nil
}

func (r *GormRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if tenantID, ok := filter.Filters["tenant_id"].(uuid.UUID); ok {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if status, ok := filter.Filters["status"].(request.Status); ok {
		query = query.Where("status = ?", string(status))
	}
	if kind, ok := filter.Filters["kind"].(request.Kind); ok {
		query = query.Where("kind = ?", string(kind))
	}
	return query
}

// Ensure GormRequestRepository implements request.Repository
var _ request.Repository = (*GormRequestRepository)(nil)
