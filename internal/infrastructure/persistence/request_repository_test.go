package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(t *testing.T, tenantID uuid.UUID, details request.Details, at time.Time) *request.Request {
	t.Helper()
	r, err := request.NewRequest(tenantID, details, request.Applicant{Name: "Ana", Contact: "ana@example.com"}, at)
	require.NoError(t, err)
	return r
}

func TestGormRequestRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormRequestRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	roomID := uuid.New()
	assignment := newTestRequest(t, tenantID, request.NewAssignment{TargetRoomID: roomID}, testNow)
	require.NoError(t, repo.Create(ctx, assignment))

	t.Run("finds a created request", func(t *testing.T) {
		found, err := repo.FindByID(ctx, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, tenantID, found.TenantID)
		assert.Equal(t, request.StatusPending, found.Status)
		assert.Equal(t, request.NewAssignment{TargetRoomID: roomID}, found.Details)
		assert.Equal(t, "Ana", found.Applicant.Name)
	})

	t.Run("returns RequestNotFound for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, request.ErrRequestNotFound)
	})

	t.Run("reports pending requests per family", func(t *testing.T) {
		pending, err := repo.ExistsPending(ctx, tenantID, request.KindNewAssignment)
		require.NoError(t, err)
		assert.True(t, pending)

		pending, err = repo.ExistsPending(ctx, tenantID, request.KindMoveOut)
		require.NoError(t, err)
		assert.False(t, pending)
	})

	t.Run("partial index rejects a second pending request of the same kind", func(t *testing.T) {
		dup := newTestRequest(t, tenantID, request.NewAssignment{TargetRoomID: uuid.New()}, testNow)
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, request.ErrDuplicatePendingRequest)
	})

	t.Run("allows a pending request of another kind", func(t *testing.T) {
		moveOut := newTestRequest(t, tenantID, request.MoveOut{
			SourceRoomID:       roomID,
			PlannedMoveOutDate: testNow.AddDate(0, 0, 14),
		}, testNow)
		require.NoError(t, repo.Create(ctx, moveOut))

		found, err := repo.FindByID(ctx, moveOut.ID)
		require.NoError(t, err)
		details, ok := found.Details.(request.MoveOut)
		require.True(t, ok)
		assert.Equal(t, "2026-03-15", details.PlannedMoveOutDate.UTC().Format(time.DateOnly))
	})

	t.Run("saves the terminal transition", func(t *testing.T) {
		admin := uuid.New()
		require.NoError(t, assignment.Reject("room closed", &admin, testNow.Add(time.Hour)))
		require.NoError(t, repo.SaveWithLock(ctx, assignment))

		found, err := repo.FindByID(ctx, assignment.ID)
		require.NoError(t, err)
		assert.Equal(t, request.StatusRejected, found.Status)
		require.NotNil(t, found.Response)
		assert.Equal(t, "room closed", found.Response.Message)
		assert.Equal(t, &admin, found.Response.RespondedBy)
		assert.Equal(t, 2, found.Version)

		pending, err := repo.ExistsPending(ctx, tenantID, request.KindNewAssignment)
		require.NoError(t, err)
		assert.False(t, pending)
	})

	t.Run("a terminal request frees the family", func(t *testing.T) {
		again := newTestRequest(t, tenantID, request.NewAssignment{TargetRoomID: roomID}, testNow.Add(2*time.Hour))
		require.NoError(t, repo.Create(ctx, again))
	})

	t.Run("stale version is a concurrency conflict", func(t *testing.T) {
		r := newTestRequest(t, uuid.New(), request.NewAssignment{TargetRoomID: roomID}, testNow)
		require.NoError(t, repo.Create(ctx, r))

		stale, err := repo.FindByID(ctx, r.ID)
		require.NoError(t, err)

		require.NoError(t, r.Approve("", nil, testNow))
		require.NoError(t, repo.SaveWithLock(ctx, r))

		require.NoError(t, stale.Reject("", nil, testNow))
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
	})

	t.Run("filters by tenant, status and kind", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["tenant_id"] = tenantID
		all, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		filter.Filters["status"] = request.StatusPending
		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		filter.Filters["kind"] = request.KindMoveOut
		list, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, request.KindMoveOut, list[0].Kind())
	})
}
