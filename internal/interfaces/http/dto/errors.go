package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
)

// Room registry error codes
const (
	ErrCodeInvalidCapacity   = "ERR_INVALID_CAPACITY"
	ErrCodeRoomFull          = "ERR_ROOM_FULL"
	ErrCodeDuplicateOccupant = "ERR_DUPLICATE_OCCUPANT"
	ErrCodeOccupantNotFound  = "ERR_OCCUPANT_NOT_FOUND"
	ErrCodeRoomNotEmpty      = "ERR_ROOM_NOT_EMPTY"
	ErrCodeRoomNotFound      = "ERR_ROOM_NOT_FOUND"
	ErrCodePropertyNotFound  = "ERR_PROPERTY_NOT_FOUND"
	ErrCodeInvalidOccupant   = "ERR_INVALID_OCCUPANT"
	ErrCodeInvalidRoom       = "ERR_INVALID_ROOM"
	ErrCodeInvalidProperty   = "ERR_INVALID_PROPERTY"
)

// Occupancy request error codes
const (
	ErrCodeDuplicatePendingRequest    = "ERR_DUPLICATE_PENDING_REQUEST"
	ErrCodeRequestNotFound            = "ERR_REQUEST_NOT_FOUND"
	ErrCodeInvalidStateTransition     = "ERR_INVALID_STATE_TRANSITION"
	ErrCodeInvalidRequest             = "ERR_INVALID_REQUEST"
	ErrCodeInvalidDecision            = "ERR_INVALID_DECISION"
	ErrCodeCapacityExceededAtApproval = "ERR_CAPACITY_EXCEEDED_AT_APPROVAL"
	ErrCodeTenantNotFound             = "ERR_TENANT_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInvalidCapacity: http.StatusBadRequest,
	ErrCodeInvalidOccupant: http.StatusBadRequest,
	ErrCodeInvalidRoom:     http.StatusBadRequest,
	ErrCodeInvalidProperty: http.StatusBadRequest,
	ErrCodeInvalidRequest:  http.StatusBadRequest,
	ErrCodeInvalidDecision: http.StatusBadRequest,

	// Missing resources -> 404 Not Found
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeOccupantNotFound: http.StatusNotFound,
	ErrCodeRoomNotFound:     http.StatusNotFound,
	ErrCodePropertyNotFound: http.StatusNotFound,
	ErrCodeRequestNotFound:  http.StatusNotFound,
	ErrCodeTenantNotFound:   http.StatusNotFound,

	// Occupancy and request conflicts -> 409 Conflict
	ErrCodeConflict:                   http.StatusConflict,
	ErrCodeConcurrencyConflict:        http.StatusConflict,
	ErrCodeRoomFull:                   http.StatusConflict,
	ErrCodeDuplicateOccupant:          http.StatusConflict,
	ErrCodeRoomNotEmpty:               http.StatusConflict,
	ErrCodeDuplicatePendingRequest:    http.StatusConflict,
	ErrCodeCapacityExceededAtApproval: http.StatusConflict,

	// State machine errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:           http.StatusUnprocessableEntity,
	ErrCodeInvalidStateTransition: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to public API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                     ErrCodeNotFound,
	"INVALID_INPUT":                 ErrCodeInvalidInput,
	"INVALID_STATE":                 ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":          ErrCodeConcurrencyConflict,
	"INTERNAL_ERROR":                ErrCodeInternal,
	"INVALID_CAPACITY":              ErrCodeInvalidCapacity,
	"ROOM_FULL":                     ErrCodeRoomFull,
	"DUPLICATE_OCCUPANT":            ErrCodeDuplicateOccupant,
	"OCCUPANT_NOT_FOUND":            ErrCodeOccupantNotFound,
	"ROOM_NOT_EMPTY":                ErrCodeRoomNotEmpty,
	"ROOM_NOT_FOUND":                ErrCodeRoomNotFound,
	"PROPERTY_NOT_FOUND":            ErrCodePropertyNotFound,
	"INVALID_OCCUPANT":              ErrCodeInvalidOccupant,
	"INVALID_ROOM":                  ErrCodeInvalidRoom,
	"INVALID_PROPERTY":              ErrCodeInvalidProperty,
	"DUPLICATE_PENDING_REQUEST":     ErrCodeDuplicatePendingRequest,
	"REQUEST_NOT_FOUND":             ErrCodeRequestNotFound,
	"INVALID_STATE_TRANSITION":      ErrCodeInvalidStateTransition,
	"INVALID_REQUEST":               ErrCodeInvalidRequest,
	"INVALID_DECISION":              ErrCodeInvalidDecision,
	"CAPACITY_EXCEEDED_AT_APPROVAL": ErrCodeCapacityExceededAtApproval,
	"TENANT_NOT_FOUND":              ErrCodeTenantNotFound,
}

// NormalizeErrorCode converts a domain error code to the public format.
// Codes already in the public format or unknown pass through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
