package persistence

import (
	"context"
	"errors"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoomRepository implements RoomRepository using GORM. A room and its
// occupant rows are always written together.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func preloadOccupants(db *gorm.DB) *gorm.DB {
	return db.Preload("Occupants", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindByID finds a room with its occupants
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*housing.Room, error) {
	var model models.RoomModel
	if err := preloadOccupants(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, housing.RoomError(housing.ErrRoomNotFound, id)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOccupant finds the room a tenant currently occupies
func (r *GormRoomRepository) FindByOccupant(ctx context.Context, tenantID uuid.UUID) (*housing.Room, error) {
	var occupant models.RoomOccupantModel
	if err := r.db.WithContext(ctx).First(&occupant, "tenant_id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, housing.ErrRoomNotFound.WithDetail("tenant_id", tenantID.String())
		}
		return nil, err
	}
	return r.FindByID(ctx, occupant.RoomID)
}

// FindAll finds rooms matching the filter. A zero PageSize returns every match.
func (r *GormRoomRepository) FindAll(ctx context.Context, filter shared.Filter) ([]housing.Room, error) {
	query := preloadOccupants(r.db.WithContext(ctx).Model(&models.RoomModel{}))
	if propertyID, ok := filter.Filters["property_id"].(uuid.UUID); ok {
		query = query.Where("property_id = ?", propertyID)
	}
	field := ValidateSortField(filter.OrderBy, RoomSortFields, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.RoomModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	rooms := make([]housing.Room, len(rows))
	for i := range rows {
		rooms[i] = *rows[i].ToDomain()
	}
	return rooms, nil
}

// Create inserts a new room and its occupant rows
func (r *GormRoomRepository) Create(ctx context.Context, room *housing.Room) error {
	model := models.RoomModelFromDomain(room)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		return r.insertOccupants(tx, room, model.Occupants)
	})
}

// SaveWithLock saves with optimistic locking (checks version) and replaces
// the occupant rows so that stored positions match the domain order.
func (r *GormRoomRepository) SaveWithLock(ctx context.Context, room *housing.Room) error {
	model := models.RoomModelFromDomain(room)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RoomModel{}).
			Where("id = ? AND version = ?", room.ID, room.Version-1).
			Updates(map[string]any{
				"capacity":    model.Capacity,
				"maintenance": model.Maintenance,
				"name":        model.Name,
				"facilities":  model.Facilities,
				"price":       model.Price,
				"description": model.Description,
				"version":     model.Version,
				"updated_at":  model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict.WithDetail("room_id", room.ID.String())
		}

		if err := tx.Where("room_id = ?", room.ID).Delete(&models.RoomOccupantModel{}).Error; err != nil {
			return err
		}
		return r.insertOccupants(tx, room, model.Occupants)
	})
}

func (r *GormRoomRepository) insertOccupants(tx *gorm.DB, room *housing.Room, rows []models.RoomOccupantModel) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return housing.RoomError(housing.ErrDuplicateOccupant, room.ID)
		}
		return err
	}
	return nil
}

// Delete removes a room. Rooms with occupants are refused.
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occupants int64
		if err := tx.Model(&models.RoomOccupantModel{}).Where("room_id = ?", id).Count(&occupants).Error; err != nil {
			return err
		}
		if occupants > 0 {
			return housing.RoomError(housing.ErrRoomNotEmpty, id)
		}

		result := tx.Delete(&models.RoomModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return housing.RoomError(housing.ErrRoomNotFound, id)
		}
		return nil
	})
}

// Ensure GormRoomRepository implements RoomRepository
var _ housing.RoomRepository = (*GormRoomRepository)(nil)
