package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/boardinghouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("from header", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id")
		assert.Equal(t, "header-request-id", getRequestID(c))
	})

	t.Run("empty when not set", func(t *testing.T) {
		c, _ := newTestContext()
		assert.Empty(t, getRequestID(c))
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		c, _ := newTestContext()
		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext()
		want := uuid.New()
		c.Request.Header.Set(middleware.UserIDHeader, want.String())
		id, err := getUserID(c)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, want, *id)
	})

	t.Run("malformed", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set(middleware.UserIDHeader, "not-a-uuid")
		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}
	roomID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "room full",
			err:        housing.RoomError(housing.ErrRoomFull, roomID),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeRoomFull,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("load room: %w", housing.ErrRoomNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeRoomNotFound,
		},
		{
			name:       "capacity exceeded at approval",
			err:        housing.RoomError(request.ErrCapacityExceededAtApproval, roomID),
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeCapacityExceededAtApproval,
		},
		{
			name:       "state transition",
			err:        request.ErrInvalidStateTransition,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeInvalidStateTransition,
		},
		{
			name:       "unknown error",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}

	t.Run("details are exposed", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, housing.RoomError(housing.ErrRoomFull, roomID))
		resp := decodeResponse(t, w)
		assert.Equal(t, roomID.String(), resp.Error.Details["room_id"])
	})

	t.Run("internal errors stay opaque", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, errors.New("password=hunter2"))
		assert.NotContains(t, w.Body.String(), "hunter2")
		assert.Len(t, c.Errors, 1)
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, nil)
		assert.Zero(t, w.Body.Len())
	})
}

func TestBaseHandler_bindJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name" binding:"required"`
	}
	h := &BaseHandler{}

	bind := func(body string) (*httptest.ResponseRecorder, bool) {
		c, w := newTestContext()
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var p payload
		return w, h.bindJSON(c, &p)
	}

	t.Run("ok", func(t *testing.T) {
		_, ok := bind(`{"name":"x"}`)
		assert.True(t, ok)
	})

	t.Run("malformed", func(t *testing.T) {
		w, ok := bind(`{"name":`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		w, ok := bind(`{}`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Fields, 1)
		assert.Equal(t, "name", resp.Error.Fields[0].Field)
	})
}

func TestBaseHandler_parseID(t *testing.T) {
	h := &BaseHandler{}

	c, _ := newTestContext()
	want := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: want.String()}}
	id, ok := h.parseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, want, id)

	c, w := newTestContext()
	c.Params = gin.Params{{Key: "tenant_id", Value: "42"}}
	_, ok = h.parseID(c, "tenant_id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid tenant_id format", decodeResponse(t, w).Error.Message)
}
