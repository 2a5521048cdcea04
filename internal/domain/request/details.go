package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies a request family. A tenant may hold at most one pending
// request per kind.
type Kind string

const (
	KindNewAssignment Kind = "NEW_ASSIGNMENT"
	KindTransfer      Kind = "TRANSFER"
	KindMoveOut       Kind = "MOVE_OUT"
)

// AllKinds lists every request family
var AllKinds = []Kind{KindNewAssignment, KindTransfer, KindMoveOut}

// IsValid reports whether k is a known kind
func (k Kind) IsValid() bool {
	switch k {
	case KindNewAssignment, KindTransfer, KindMoveOut:
		return true
	}
	return false
}

// ParseKind parses a case-insensitive kind name
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("unknown request kind %q", s)
	}
	return k, nil
}

// Details holds the variant-specific part of a request. The set of
// implementations is closed: NewAssignment, Transfer and MoveOut.
type Details interface {
	Kind() Kind
	// RoomIDs returns every room the request touches
	RoomIDs() []uuid.UUID
	validate(requestedAt time.Time) error
}

// NewAssignment asks for a first room for a tenant who is not housed
type NewAssignment struct {
	TargetRoomID uuid.UUID
}

// Kind returns KindNewAssignment
func (NewAssignment) Kind() Kind { return KindNewAssignment }

// RoomIDs returns the target room
func (d NewAssignment) RoomIDs() []uuid.UUID { return []uuid.UUID{d.TargetRoomID} }

func (d NewAssignment) validate(time.Time) error {
	if d.TargetRoomID == uuid.Nil {
		return ErrInvalidRequest.WithMessage("Target room is required")
	}
	return nil
}

// Transfer moves a tenant from the room they occupy to another room
type Transfer struct {
	SourceRoomID uuid.UUID
	TargetRoomID uuid.UUID
}

// Kind returns KindTransfer
func (Transfer) Kind() Kind { return KindTransfer }

// RoomIDs returns source and target
func (d Transfer) RoomIDs() []uuid.UUID { return []uuid.UUID{d.SourceRoomID, d.TargetRoomID} }

func (d Transfer) validate(time.Time) error {
	if d.SourceRoomID == uuid.Nil || d.TargetRoomID == uuid.Nil {
		return ErrInvalidRequest.WithMessage("Source and target rooms are required")
	}
	if d.SourceRoomID == d.TargetRoomID {
		return ErrInvalidRequest.WithMessage("Source and target rooms must differ")
	}
	return nil
}

// MoveOut vacates the tenant's room on a planned date
type MoveOut struct {
	SourceRoomID       uuid.UUID
	PlannedMoveOutDate time.Time
}

// Kind returns KindMoveOut
func (MoveOut) Kind() Kind { return KindMoveOut }

// RoomIDs returns the source room
func (d MoveOut) RoomIDs() []uuid.UUID { return []uuid.UUID{d.SourceRoomID} }

func (d MoveOut) validate(requestedAt time.Time) error {
	if d.SourceRoomID == uuid.Nil {
		return ErrInvalidRequest.WithMessage("Source room is required")
	}
	if !calendarDay(d.PlannedMoveOutDate).After(calendarDay(requestedAt)) {
		return ErrInvalidRequest.WithMessage("Planned move-out date must be after the submission date")
	}
	return nil
}

// calendarDay truncates t to midnight UTC of its UTC date
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SourceRoomID returns the room the tenant must currently occupy, if any
func SourceRoomID(d Details) (uuid.UUID, bool) {
	switch v := d.(type) {
	case Transfer:
		return v.SourceRoomID, true
	case MoveOut:
		return v.SourceRoomID, true
	}
	return uuid.Nil, false
}

// TargetRoomID returns the room the tenant will be added to, if any
func TargetRoomID(d Details) (uuid.UUID, bool) {
	switch v := d.(type) {
	case NewAssignment:
		return v.TargetRoomID, true
	case Transfer:
		return v.TargetRoomID, true
	}
	return uuid.Nil, false
}
