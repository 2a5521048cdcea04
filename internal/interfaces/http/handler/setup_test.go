package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/boardinghouse/backend/internal/infrastructure/event"
	"github.com/boardinghouse/backend/internal/infrastructure/lock"
	"github.com/boardinghouse/backend/internal/infrastructure/persistence"
	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/boardinghouse/backend/internal/interfaces/http/middleware"
	"github.com/boardinghouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// apiEnv serves the full /api/v1 surface over a migrated in-memory SQLite
// database
type apiEnv struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	database, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, persistence.AutoMigrate(database.DB))

	db := database.DB
	logger := zap.NewNop()
	locker := lock.NewMemoryLocker()
	scope := persistence.NewGormTransactionScope(db)
	bus := event.NewInMemoryEventBus(logger)

	properties := occupancy.NewPropertyService(persistence.NewGormPropertyRepository(db), scope, locker, logger)
	rooms := occupancy.NewRoomService(
		persistence.NewGormRoomRepository(db),
		persistence.NewGormOccupancyRecordRepository(db),
		scope, locker, logger,
	)
	requests := occupancy.NewRequestService(
		persistence.NewGormRequestRepository(db),
		occupancy.NewOccupancyMutator(logger),
		scope, locker, logger,
	)
	properties.SetEventPublisher(bus)
	rooms.SetEventPublisher(bus)
	requests.SetEventPublisher(bus)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	system := NewSystemHandler("Boarding House API", "test", database)
	engine.GET("/health", system.Health)

	router.NewRouter(engine).
		Register(system.Routes()).
		Register(NewPropertyHandler(properties).Routes()).
		Register(NewRoomHandler(rooms).Routes()).
		Register(NewRequestHandler(requests).Routes()).
		Setup()

	return &apiEnv{t: t, engine: engine}
}

// apiResponse is dto.Response with Data left raw for typed decoding
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func (e *apiEnv) do(method, path string, body any, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	e.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

// decode unmarshals the data field of a successful response
func decode[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var v T
	require.True(t, resp.Success, "expected success, got %+v", resp.Error)
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func (e *apiEnv) createProperty() occupancy.PropertyResponse {
	e.t.Helper()
	w, resp := e.do(http.MethodPost, "/api/v1/properties", map[string]any{
		"name":    "Maple House",
		"address": "12 Maple St",
	})
	require.Equal(e.t, http.StatusCreated, w.Code)
	return decode[occupancy.PropertyResponse](e.t, resp)
}

func (e *apiEnv) createRoom(propertyID string, capacity int) occupancy.RoomResponse {
	e.t.Helper()
	w, resp := e.do(http.MethodPost, "/api/v1/rooms", map[string]any{
		"property_id": propertyID,
		"capacity":    capacity,
		"name":        "Room",
		"facilities":  []string{"desk"},
		"price":       "450.00",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[occupancy.RoomResponse](e.t, resp)
}

func (e *apiEnv) getRoom(id string) occupancy.RoomResponse {
	e.t.Helper()
	w, resp := e.do(http.MethodGet, "/api/v1/rooms/"+id, nil)
	require.Equal(e.t, http.StatusOK, w.Code)
	return decode[occupancy.RoomResponse](e.t, resp)
}

func (e *apiEnv) submit(kind string, body map[string]any) occupancy.RequestResponse {
	e.t.Helper()
	w, resp := e.do(http.MethodPost, "/api/v1/requests/"+kind, body)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[occupancy.RequestResponse](e.t, resp)
}

func nextWeek() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format(time.DateOnly)
}
