package housing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Occupant is a tenant currently assigned to a room. Name and Contact are a
// display snapshot taken at assignment time; the tenant record itself lives
// in the external directory.
type Occupant struct {
	TenantID   uuid.UUID
	Name       string
	Contact    string
	MoveInDate time.Time
}

// NewOccupant creates an occupant reference
func NewOccupant(tenantID uuid.UUID, name, contact string, moveInDate time.Time) (Occupant, error) {
	if tenantID == uuid.Nil {
		return Occupant{}, ErrInvalidOccupant
	}
	return Occupant{
		TenantID:   tenantID,
		Name:       strings.TrimSpace(name),
		Contact:    strings.TrimSpace(contact),
		MoveInDate: moveInDate,
	}, nil
}

// MovedIn returns a copy of the occupant with a new move-in date.
func (o Occupant) MovedIn(at time.Time) Occupant {
	o.MoveInDate = at
	return o
}
