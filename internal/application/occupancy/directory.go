package occupancy

import (
	"context"

	"github.com/google/uuid"
)

// TenantProfile is the directory's view of a tenant
type TenantProfile struct {
	TenantID uuid.UUID
	Name     string
	Contact  string
}

// TenantDirectory resolves authoritative tenant identity and contact details.
// The occupancy core only stores a snapshot of them.
type TenantDirectory interface {
	Lookup(ctx context.Context, tenantID uuid.UUID) (*TenantProfile, error)
}
