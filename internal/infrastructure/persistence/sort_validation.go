package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// RoomSortFields contains allowed sort fields for rooms
var RoomSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"capacity":   true,
	"price":      true,
}

// RequestSortFields contains allowed sort fields for occupancy requests
var RequestSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"requested_at": true,
	"status":       true,
	"kind":         true,
}

// RecordSortFields contains allowed sort fields for occupancy history
var RecordSortFields = map[string]bool{
	"occurred_at": true,
	"created_at":  true,
}
