package handler

import (
	"net/http"
	"testing"

	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomHandler_Create(t *testing.T) {
	env := newAPIEnv(t)
	property := env.createProperty()

	t.Run("new room is vacant", func(t *testing.T) {
		room := env.createRoom(property.ID.String(), 2)
		assert.Equal(t, housing.RoomStatusVacant, room.Status)
		assert.Equal(t, 2, room.AvailableSlots)
		assert.Equal(t, []string{"desk"}, room.Facilities)
		assert.Equal(t, "450", room.Price.String())
	})

	t.Run("zero capacity", func(t *testing.T) {
		w, resp := env.do(http.MethodPost, "/api/v1/rooms", map[string]any{
			"property_id": property.ID,
			"capacity":    0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCapacity, resp.Error.Code)
	})

	t.Run("unknown property", func(t *testing.T) {
		w, resp := env.do(http.MethodPost, "/api/v1/rooms", map[string]any{
			"property_id": uuid.New(),
			"capacity":    1,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodePropertyNotFound, resp.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w, resp := env.do(http.MethodPost, "/api/v1/rooms", `{"capacity":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})
}

func TestRoomHandler_Occupants(t *testing.T) {
	env := newAPIEnv(t)
	property := env.createProperty()
	room := env.createRoom(property.ID.String(), 2)
	other := env.createRoom(property.ID.String(), 2)
	path := "/api/v1/rooms/" + room.ID.String()

	first, second, third := uuid.New(), uuid.New(), uuid.New()

	w, resp := env.do(http.MethodPost, path+"/occupants", map[string]any{"tenant_id": first, "name": "Ada"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, housing.RoomStatusAvailable, decode[occupancy.RoomResponse](t, resp).Status)

	t.Run("duplicate occupant anywhere", func(t *testing.T) {
		w, resp := env.do(http.MethodPost, "/api/v1/rooms/"+other.ID.String()+"/occupants", map[string]any{"tenant_id": first})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeDuplicateOccupant, resp.Error.Code)
		assert.Equal(t, first.String(), resp.Error.Details["tenant_id"])
	})

	w, resp = env.do(http.MethodPost, path+"/occupants", map[string]any{"tenant_id": second})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, housing.RoomStatusFull, decode[occupancy.RoomResponse](t, resp).Status)

	t.Run("room full", func(t *testing.T) {
		w, resp := env.do(http.MethodPost, path+"/occupants", map[string]any{"tenant_id": third})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeRoomFull, resp.Error.Code)
		assert.Equal(t, room.ID.String(), resp.Error.Details["room_id"])
	})

	t.Run("missing tenant id", func(t *testing.T) {
		w, resp := env.do(http.MethodPost, path+"/occupants", map[string]any{"name": "nobody"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("delete occupied room", func(t *testing.T) {
		w, resp := env.do(http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeRoomNotEmpty, resp.Error.Code)
	})

	t.Run("remove keeps order of the rest", func(t *testing.T) {
		w, resp := env.do(http.MethodDelete, path+"/occupants/"+first.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		updated := decode[occupancy.RoomResponse](t, resp)
		require.Len(t, updated.Occupants, 1)
		assert.Equal(t, second, updated.Occupants[0].TenantID)
		assert.Equal(t, 0, updated.Occupants[0].Position)
	})

	t.Run("remove absent occupant", func(t *testing.T) {
		w, resp := env.do(http.MethodDelete, path+"/occupants/"+third.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeOccupantNotFound, resp.Error.Code)
	})

	t.Run("history newest first", func(t *testing.T) {
		w, resp := env.do(http.MethodGet, path+"/history?page_size=10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		records := decode[[]occupancy.OccupancyRecordResponse](t, resp)
		require.Len(t, records, 3)
		assert.Equal(t, housing.RecordTypeMoveOut, records[0].Type)
		assert.Equal(t, first, records[0].TenantID)
		assert.Equal(t, int64(3), resp.Meta.Total)
	})

	t.Run("delete after emptying", func(t *testing.T) {
		w, _ := env.do(http.MethodDelete, path+"/occupants/"+second.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = env.do(http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, resp := env.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeRoomNotFound, resp.Error.Code)
	})
}

func TestRoomHandler_MaintenanceAndList(t *testing.T) {
	env := newAPIEnv(t)
	property := env.createProperty()
	vacant := env.createRoom(property.ID.String(), 1)
	repair := env.createRoom(property.ID.String(), 1)

	w, resp := env.do(http.MethodPut, "/api/v1/rooms/"+repair.ID.String()+"/maintenance", map[string]any{"maintenance": true})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[occupancy.RoomResponse](t, resp)
	assert.Equal(t, housing.RoomStatusMaintenance, updated.Status)
	assert.True(t, updated.Maintenance)

	t.Run("maintenance flag is required", func(t *testing.T) {
		w, resp := env.do(http.MethodPut, "/api/v1/rooms/"+repair.ID.String()+"/maintenance", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("filter by status", func(t *testing.T) {
		w, resp := env.do(http.MethodGet, "/api/v1/rooms?status=vacant&property_id="+property.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		rooms := decode[[]occupancy.RoomResponse](t, resp)
		require.Len(t, rooms, 1)
		assert.Equal(t, vacant.ID, rooms[0].ID)
	})

	t.Run("unknown status", func(t *testing.T) {
		w, resp := env.do(http.MethodGet, "/api/v1/rooms?status=HAUNTED", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("page out of range", func(t *testing.T) {
		w, resp := env.do(http.MethodGet, "/api/v1/rooms?page=100000000000000000", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("malformed property filter", func(t *testing.T) {
		w, resp := env.do(http.MethodGet, "/api/v1/rooms?property_id=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("update metadata", func(t *testing.T) {
		w, resp := env.do(http.MethodPut, "/api/v1/rooms/"+vacant.ID.String(), map[string]any{
			"name":        "Attic",
			"facilities":  []string{"skylight"},
			"price":       "300",
			"description": "Quiet",
		})
		require.Equal(t, http.StatusOK, w.Code)
		room := decode[occupancy.RoomResponse](t, resp)
		assert.Equal(t, "Attic", room.Name)
		assert.Equal(t, 1, room.Capacity)
	})
}
