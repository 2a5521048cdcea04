package models

import (
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestRoomModel_RoundTrip(t *testing.T) {
	room, err := housing.NewRoom(uuid.New(), 3, housing.RoomDetails{
		Name:       "Room 101",
		Facilities: []string{"wifi", "desk"},
		Price:      decimal.NewFromInt(450),
	}, testNow)
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()
	for _, id := range []uuid.UUID{first, second} {
		occ, err := housing.NewOccupant(id, "Tenant", "555-0100", testNow)
		require.NoError(t, err)
		require.NoError(t, room.AddOccupant(occ, testNow))
	}

	m := RoomModelFromDomain(room)
	require.Len(t, m.Occupants, 2)
	assert.Equal(t, 0, m.Occupants[0].Position)
	assert.Equal(t, 1, m.Occupants[1].Position)
	assert.Equal(t, room.ID, m.Occupants[1].RoomID)

	back := m.ToDomain()
	assert.Equal(t, room.ID, back.ID)
	assert.Equal(t, room.Version, back.Version)
	assert.Equal(t, []uuid.UUID{first, second}, back.TenantIDs())
	assert.Equal(t, []string{"wifi", "desk"}, back.Facilities)
	assert.Equal(t, housing.RoomStatusAvailable, back.Status())
	assert.Empty(t, back.GetDomainEvents())
}

func TestOccupancyRequestModel_RoundTrip(t *testing.T) {
	tenantID := uuid.New()
	source := uuid.New()
	target := uuid.New()

	tests := []struct {
		name    string
		details request.Details
	}{
		{"new assignment", request.NewAssignment{TargetRoomID: target}},
		{"transfer", request.Transfer{SourceRoomID: source, TargetRoomID: target}},
		{"move out", request.MoveOut{SourceRoomID: source, PlannedMoveOutDate: testNow.AddDate(0, 0, 7)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := request.NewRequest(tenantID, tt.details, request.Applicant{Name: "Ana"}, testNow)
			require.NoError(t, err)

			back, err := OccupancyRequestModelFromDomain(r).ToDomain()
			require.NoError(t, err)
			assert.Equal(t, tt.details, back.Details)
			assert.Equal(t, request.StatusPending, back.Status)
			assert.Nil(t, back.Response)
		})
	}

	t.Run("keeps the admin response", func(t *testing.T) {
		admin := uuid.New()
		r, err := request.NewRequest(tenantID, request.NewAssignment{TargetRoomID: target}, request.Applicant{}, testNow)
		require.NoError(t, err)
		require.NoError(t, r.Reject("no vacancy", &admin, testNow.Add(time.Hour)))

		back, err := OccupancyRequestModelFromDomain(r).ToDomain()
		require.NoError(t, err)
		assert.Equal(t, request.StatusRejected, back.Status)
		require.NotNil(t, back.Response)
		assert.Equal(t, "no vacancy", back.Response.Message)
		assert.Equal(t, &admin, back.Response.RespondedBy)
	})

	t.Run("rejects rows with missing variant columns", func(t *testing.T) {
		m := &OccupancyRequestModel{Kind: string(request.KindTransfer)}
		_, err := m.ToDomain()
		assert.Error(t, err)
	})
}
