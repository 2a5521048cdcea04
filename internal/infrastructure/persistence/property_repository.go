package persistence

import (
	"context"
	"errors"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, housing.ErrPropertyNotFound.WithDetail("property_id", id.String())
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all properties matching the filter
func (r *GormPropertyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]housing.Property, error) {
	var rows []models.PropertyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PropertyModel{}), filter)
	query = r.applyOrdering(query, filter)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	properties := make([]housing.Property, len(rows))
	for i := range rows {
		properties[i] = *rows[i].ToDomain()
	}
	return properties, nil
}

// Count counts properties matching the filter
func (r *GormPropertyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PropertyModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByID checks if a property exists
func (r *GormPropertyRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PropertyModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, property *housing.Property) error {
	return r.db.WithContext(ctx).Save(models.PropertyModelFromDomain(property)).Error
}

func (r *GormPropertyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if name, ok := filter.Filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	return query
}

func (r *GormPropertyRepository) applyOrdering(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, PropertySortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ housing.PropertyRepository = (*GormPropertyRepository)(nil)
