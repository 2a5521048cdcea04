package occupancy

import (
	"context"

	"github.com/google/uuid"
)

// Locker serializes mutations on shared occupancy state. Lock acquires every
// key in ascending lexical order, so callers holding overlapping key sets
// never deadlock, and returns a function releasing all of them.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (release func(), err error)
}

// RoomKey is the lock key guarding a room's occupant list
func RoomKey(id uuid.UUID) string {
	return "room:" + id.String()
}

// TenantKey is the lock key guarding a tenant's pending requests and
// system-wide room membership
func TenantKey(id uuid.UUID) string {
	return "tenant:" + id.String()
}

// RequestKey is the lock key guarding a request's lifecycle
func RequestKey(id uuid.UUID) string {
	return "request:" + id.String()
}
