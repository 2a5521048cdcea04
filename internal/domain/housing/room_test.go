package housing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func createTestRoom(t *testing.T, capacity int) *Room {
	t.Helper()
	room, err := NewRoom(uuid.New(), capacity, RoomDetails{Name: "101"}, testNow)
	require.NoError(t, err)
	room.ClearDomainEvents()
	return room
}

func testOccupant(t *testing.T, name string) Occupant {
	t.Helper()
	o, err := NewOccupant(uuid.New(), name, name+"@example.com", testNow)
	require.NoError(t, err)
	return o
}

func TestNewRoom(t *testing.T) {
	propertyID := uuid.New()

	t.Run("creates empty room", func(t *testing.T) {
		room, err := NewRoom(propertyID, 2, RoomDetails{
			Name:       " 201 ",
			Facilities: []string{"wifi", " ", "wifi", "desk"},
			Price:      decimal.NewFromInt(1500000),
		}, testNow)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, room.ID)
		assert.Equal(t, propertyID, room.PropertyID)
		assert.Equal(t, 2, room.Capacity)
		assert.Equal(t, "201", room.Name)
		assert.Equal(t, []string{"wifi", "desk"}, room.Facilities)
		assert.Empty(t, room.Occupants)
		assert.Equal(t, 1, room.Version)
		assert.Equal(t, RoomStatusVacant, room.Status())

		events := room.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRoomCreated, events[0].EventType())
	})

	t.Run("rejects capacity below one", func(t *testing.T) {
		for _, c := range []int{0, -1} {
			room, err := NewRoom(propertyID, c, RoomDetails{}, testNow)
			assert.Nil(t, room)
			assert.True(t, errors.Is(err, ErrInvalidCapacity))
		}
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewRoom(propertyID, 1, RoomDetails{Price: decimal.NewFromInt(-1)}, testNow)
		assert.True(t, errors.Is(err, ErrInvalidRoom))
	})

	t.Run("rejects nil property", func(t *testing.T) {
		_, err := NewRoom(uuid.Nil, 1, RoomDetails{}, testNow)
		assert.True(t, errors.Is(err, ErrInvalidRoom))
	})
}

func TestRoom_AddOccupant(t *testing.T) {
	t.Run("appends in move-in order", func(t *testing.T) {
		room := createTestRoom(t, 2)
		t1, t2 := testOccupant(t, "t1"), testOccupant(t, "t2")

		require.NoError(t, room.AddOccupant(t1, testNow))
		assert.Equal(t, RoomStatusAvailable, room.Status())
		require.NoError(t, room.AddOccupant(t2, testNow))

		assert.Equal(t, []uuid.UUID{t1.TenantID, t2.TenantID}, room.TenantIDs())
		assert.Equal(t, RoomStatusFull, room.Status())
		assert.Equal(t, 3, room.Version)

		events := room.GetDomainEvents()
		require.Len(t, events, 2)
		last := events[1].(*OccupancyChangedEvent)
		assert.Equal(t, OccupancyChangeMoveIn, last.Change)
		assert.Equal(t, 2, last.OccupantCount)
		assert.Equal(t, RoomStatusFull, last.Status)
	})

	t.Run("fails when full", func(t *testing.T) {
		room := createTestRoom(t, 1)
		require.NoError(t, room.AddOccupant(testOccupant(t, "a"), testNow))

		err := room.AddOccupant(testOccupant(t, "b"), testNow)

		require.True(t, errors.Is(err, ErrRoomFull))
		assert.Len(t, room.Occupants, 1)
		assert.Equal(t, 2, room.Version)
	})

	t.Run("carries the room id", func(t *testing.T) {
		room := createTestRoom(t, 1)
		require.NoError(t, room.AddOccupant(testOccupant(t, "a"), testNow))

		err := room.AddOccupant(testOccupant(t, "b"), testNow)
		de := RoomError(ErrRoomFull, room.ID)
		assert.Equal(t, de, err)
		assert.Equal(t, room.ID.String(), de.Details["room_id"])
	})

	t.Run("fails for tenant already in room", func(t *testing.T) {
		room := createTestRoom(t, 3)
		o := testOccupant(t, "a")
		require.NoError(t, room.AddOccupant(o, testNow))

		err := room.AddOccupant(o, testNow)
		assert.True(t, errors.Is(err, ErrDuplicateOccupant))
		assert.Len(t, room.Occupants, 1)
	})

	t.Run("fails for nil tenant", func(t *testing.T) {
		room := createTestRoom(t, 1)
		err := room.AddOccupant(Occupant{}, testNow)
		assert.True(t, errors.Is(err, ErrInvalidOccupant))
	})
}

func TestRoom_RemoveOccupant(t *testing.T) {
	t.Run("removes and reports position", func(t *testing.T) {
		room := createTestRoom(t, 3)
		a, b, c := testOccupant(t, "a"), testOccupant(t, "b"), testOccupant(t, "c")
		for _, o := range []Occupant{a, b, c} {
			require.NoError(t, room.AddOccupant(o, testNow))
		}

		removed, pos, err := room.RemoveOccupant(b.TenantID, testNow)

		require.NoError(t, err)
		assert.Equal(t, b, removed)
		assert.Equal(t, 1, pos)
		assert.Equal(t, []uuid.UUID{a.TenantID, c.TenantID}, room.TenantIDs())
	})

	t.Run("fails for unknown tenant", func(t *testing.T) {
		room := createTestRoom(t, 1)
		_, _, err := room.RemoveOccupant(uuid.New(), testNow)
		assert.True(t, errors.Is(err, ErrOccupantNotFound))
		assert.Equal(t, 1, room.Version)
	})
}

func TestRoom_RestoreOccupant(t *testing.T) {
	room := createTestRoom(t, 3)
	a, b, c := testOccupant(t, "a"), testOccupant(t, "b"), testOccupant(t, "c")
	for _, o := range []Occupant{a, b, c} {
		require.NoError(t, room.AddOccupant(o, testNow))
	}
	room.ClearDomainEvents()

	removed, pos, err := room.RemoveOccupant(b.TenantID, testNow)
	require.NoError(t, err)
	require.Len(t, room.GetDomainEvents(), 1)

	require.NoError(t, room.RestoreOccupant(removed, pos, testNow))

	assert.Equal(t, []uuid.UUID{a.TenantID, b.TenantID, c.TenantID}, room.TenantIDs())
	assert.Empty(t, room.GetDomainEvents())

	t.Run("refuses duplicate", func(t *testing.T) {
		err := room.RestoreOccupant(a, 0, testNow)
		assert.True(t, errors.Is(err, ErrDuplicateOccupant))
	})

	t.Run("refuses when full", func(t *testing.T) {
		err := room.RestoreOccupant(testOccupant(t, "d"), 0, testNow)
		assert.True(t, errors.Is(err, ErrRoomFull))
	})
}

func TestRoom_SetMaintenance(t *testing.T) {
	room := createTestRoom(t, 2)
	require.NoError(t, room.AddOccupant(testOccupant(t, "a"), testNow))
	room.ClearDomainEvents()

	room.SetMaintenance(true, testNow)
	assert.Equal(t, RoomStatusMaintenance, room.Status())
	assert.Len(t, room.Occupants, 1)
	require.Len(t, room.GetDomainEvents(), 1)

	room.SetMaintenance(true, testNow)
	assert.Len(t, room.GetDomainEvents(), 1, "no-op flip emits nothing")

	room.SetMaintenance(false, testNow)
	assert.Equal(t, RoomStatusAvailable, room.Status())
}

func TestRoom_MarkDeleted(t *testing.T) {
	room := createTestRoom(t, 1)
	o := testOccupant(t, "a")
	require.NoError(t, room.AddOccupant(o, testNow))

	err := room.MarkDeleted(testNow)
	assert.True(t, errors.Is(err, ErrRoomNotEmpty))

	_, _, err = room.RemoveOccupant(o.TenantID, testNow)
	require.NoError(t, err)
	assert.NoError(t, room.MarkDeleted(testNow))
}

func TestRoom_UpdateDetails(t *testing.T) {
	room := createTestRoom(t, 1)
	err := room.UpdateDetails(RoomDetails{Name: "A1", Description: " sunny ", Price: decimal.NewFromInt(10)}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "A1", room.Name)
	assert.Equal(t, "sunny", room.Description)
	assert.Equal(t, 2, room.Version)
}

func TestNewProperty(t *testing.T) {
	p, err := NewProperty(" Kost Melati ", "Jl. Mawar 1", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Kost Melati", p.Name)

	_, err = NewProperty("  ", "", testNow)
	assert.True(t, errors.Is(err, ErrInvalidProperty))
}
