package models

import (
	"time"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PropertyModel is the persistence model for the Property aggregate root.
type PropertyModel struct {
	AggregateModel
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property.
func (m *PropertyModel) ToDomain() *housing.Property {
	return &housing.Property{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Address:           m.Address,
	}
}

// PropertyModelFromDomain creates a new persistence model from a domain Property.
func PropertyModelFromDomain(p *housing.Property) *PropertyModel {
	m := &PropertyModel{
		Name:    p.Name,
		Address: p.Address,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// RoomModel is the persistence model for the Room aggregate root. Status is
// derived and never stored.
type RoomModel struct {
	AggregateModel
	PropertyID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Capacity    int                 `gorm:"not null"`
	Maintenance bool                `gorm:"not null;default:false"`
	Name        string              `gorm:"type:varchar(100)"`
	Facilities  pq.StringArray      `gorm:"type:text[]"`
	Price       decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Description string              `gorm:"type:text"`
	Occupants   []RoomOccupantModel `gorm:"foreignKey:RoomID;references:ID"`
}

// TableName returns the table name for GORM
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts the persistence model to a domain Room. Occupants must
// already be sorted by position.
func (m *RoomModel) ToDomain() *housing.Room {
	occupants := make([]housing.Occupant, len(m.Occupants))
	for i, o := range m.Occupants {
		occupants[i] = o.ToDomain()
	}
	facilities := make([]string, len(m.Facilities))
	copy(facilities, m.Facilities)

	return &housing.Room{
		BaseAggregateRoot: m.ToAggregateRoot(),
		PropertyID:        m.PropertyID,
		Capacity:          m.Capacity,
		Occupants:         occupants,
		Maintenance:       m.Maintenance,
		RoomDetails: housing.RoomDetails{
			Name:        m.Name,
			Facilities:  facilities,
			Price:       m.Price,
			Description: m.Description,
		},
	}
}

// RoomModelFromDomain creates a new persistence model from a domain Room.
func RoomModelFromDomain(r *housing.Room) *RoomModel {
	m := &RoomModel{
		PropertyID:  r.PropertyID,
		Capacity:    r.Capacity,
		Maintenance: r.Maintenance,
		Name:        r.Name,
		Facilities:  pq.StringArray(r.Facilities),
		Price:       r.Price,
		Description: r.Description,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Occupants = RoomOccupantModelsFromDomain(r)
	return m
}

// RoomOccupantModel is one entry of a room's ordered occupant list. The
// unique index on tenant_id enforces that a tenant occupies at most one room.
type RoomOccupantModel struct {
	RoomID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_room_occupants_tenant"`
	Position   int       `gorm:"not null"`
	Name       string    `gorm:"type:varchar(200)"`
	Contact    string    `gorm:"type:varchar(200)"`
	MoveInDate time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RoomOccupantModel) TableName() string {
	return "room_occupants"
}

// ToDomain converts the persistence model to a domain Occupant.
func (m *RoomOccupantModel) ToDomain() housing.Occupant {
	return housing.Occupant{
		TenantID:   m.TenantID,
		Name:       m.Name,
		Contact:    m.Contact,
		MoveInDate: m.MoveInDate,
	}
}

// RoomOccupantModelsFromDomain builds the occupant rows of a room in order.
func RoomOccupantModelsFromDomain(r *housing.Room) []RoomOccupantModel {
	rows := make([]RoomOccupantModel, len(r.Occupants))
	for i, o := range r.Occupants {
		rows[i] = RoomOccupantModel{
			RoomID:     r.ID,
			TenantID:   o.TenantID,
			Position:   i,
			Name:       o.Name,
			Contact:    o.Contact,
			MoveInDate: o.MoveInDate,
		}
	}
	return rows
}

// OccupancyRecordModel is the persistence model for occupancy history.
// Rows are never updated and outlive the room they reference.
type OccupancyRecordModel struct {
	BaseModel
	RoomID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PropertyID uuid.UUID  `gorm:"type:uuid;not null"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type       string     `gorm:"type:varchar(20);not null"`
	RequestID  *uuid.UUID `gorm:"type:uuid"`
	OccurredAt time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (OccupancyRecordModel) TableName() string {
	return "occupancy_records"
}

// ToDomain converts the persistence model to a domain OccupancyRecord.
func (m *OccupancyRecordModel) ToDomain() housing.OccupancyRecord {
	return housing.OccupancyRecord{
		BaseEntity: m.BaseModel.ToDomain(),
		RoomID:     m.RoomID,
		PropertyID: m.PropertyID,
		TenantID:   m.TenantID,
		Type:       housing.RecordType(m.Type),
		RequestID:  m.RequestID,
		OccurredAt: m.OccurredAt,
	}
}

// OccupancyRecordModelFromDomain creates a new persistence model from a domain OccupancyRecord.
func OccupancyRecordModelFromDomain(r *housing.OccupancyRecord) *OccupancyRecordModel {
	m := &OccupancyRecordModel{
		RoomID:     r.RoomID,
		PropertyID: r.PropertyID,
		TenantID:   r.TenantID,
		Type:       string(r.Type),
		RequestID:  r.RequestID,
		OccurredAt: r.OccurredAt,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
