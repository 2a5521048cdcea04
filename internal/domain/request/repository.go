package request

import (
	"context"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence operations for occupancy requests.
// Requests are never deleted.
type Repository interface {
	// FindByID returns ErrRequestNotFound when the request does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)

	// ExistsPending reports whether the tenant has a pending request of kind
	ExistsPending(ctx context.Context, tenantID uuid.UUID, kind Kind) (bool, error)

	// FindAll lists requests, newest first. Supported filter keys:
	// "tenant_id" (uuid.UUID), "status" (Status), "kind" (Kind).
	FindAll(ctx context.Context, filter shared.Filter) ([]Request, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts a new pending request
	Create(ctx context.Context, r *Request) error

	// SaveWithLock persists a status transition if the stored version equals
	// r.Version-1, returning shared.ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, r *Request) error
}
