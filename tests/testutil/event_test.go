package testutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Room", uuid.New(), time.Now())
	return &e
}

func TestRecordingHandler(t *testing.T) {
	handler := NewRecordingHandler("RoomCreated", "OccupancyChanged")
	assert.Equal(t, []string{"RoomCreated", "OccupancyChanged"}, handler.EventTypes())

	ctx := context.Background()
	require.NoError(t, handler.Handle(ctx, newEvent("RoomCreated")))
	require.NoError(t, handler.Handle(ctx, newEvent("OccupancyChanged")))
	require.NoError(t, handler.Handle(ctx, newEvent("OccupancyChanged")))

	assert.Len(t, handler.Handled(), 3)
	assert.Equal(t, 1, handler.Count("RoomCreated"))
	assert.Equal(t, 2, handler.Count("OccupancyChanged"))
	assert.Zero(t, handler.Count("RoomDeleted"))

	handler.SetError(assert.AnError)
	assert.ErrorIs(t, handler.Handle(ctx, newEvent("RoomCreated")), assert.AnError)
	assert.Equal(t, 2, handler.Count("RoomCreated"))
}

func TestWaitForCondition(t *testing.T) {
	var calls atomic.Int32
	ok := WaitForCondition(t, func() bool {
		return calls.Add(1) >= 3
	}, time.Second, time.Millisecond)
	assert.True(t, ok)

	assert.False(t, WaitForCondition(t, func() bool { return false }, 20*time.Millisecond, 5*time.Millisecond))
}

func TestWaitForEventCount(t *testing.T) {
	handler := NewRecordingHandler("RoomCreated")
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = handler.Handle(context.Background(), newEvent("RoomCreated"))
	}()
	assert.True(t, WaitForEventCount(t, handler, "RoomCreated", 1, time.Second))
}
