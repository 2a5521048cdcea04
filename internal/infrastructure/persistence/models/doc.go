// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - housing.go: properties, rooms, room occupants and occupancy history
// - request.go: occupancy requests, one row per request with nullable variant columns
package models
