package directory

import (
	"context"
	"sync"

	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/google/uuid"
)

// StaticDirectory is an in-memory TenantDirectory for local setups and tests
type StaticDirectory struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]occupancy.TenantProfile
}

// NewStaticDirectory creates a directory holding profiles
func NewStaticDirectory(profiles ...occupancy.TenantProfile) *StaticDirectory {
	d := &StaticDirectory{profiles: make(map[uuid.UUID]occupancy.TenantProfile, len(profiles))}
	for _, p := range profiles {
		d.profiles[p.TenantID] = p
	}
	return d
}

// Put adds or replaces a profile
func (d *StaticDirectory) Put(profile occupancy.TenantProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[profile.TenantID] = profile
}

// Lookup returns a copy of the stored profile
func (d *StaticDirectory) Lookup(_ context.Context, tenantID uuid.UUID) (*occupancy.TenantProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.profiles[tenantID]
	if !ok {
		return nil, ErrTenantNotFound.WithDetail("tenant_id", tenantID.String())
	}
	return &p, nil
}

var _ occupancy.TenantDirectory = (*StaticDirectory)(nil)
