package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]metricdata.Sum[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = sum
			}
		}
	}
	return sums
}

func total(sum metricdata.Sum[int64]) int64 {
	var n int64
	for _, dp := range sum.DataPoints {
		n += dp.Value
	}
	return n
}

func TestOccupancyMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewOccupancyMetrics(provider.Meter("test"))
	require.NoError(t, err)

	assert.Contains(t, metrics.EventTypes(), housing.EventTypeOccupancyChanged)

	ctx := context.Background()
	now := time.Now()
	room, err := housing.NewRoom(uuid.New(), 1, housing.RoomDetails{}, now)
	require.NoError(t, err)
	room.ClearDomainEvents()

	tenantID := uuid.New()
	req, err := request.NewRequest(tenantID, request.NewAssignment{TargetRoomID: room.ID}, request.Applicant{Name: "Ana"}, now)
	require.NoError(t, err)
	require.NoError(t, metrics.Handle(ctx, request.NewRequestSubmittedEvent(req)))
	require.NoError(t, metrics.Handle(ctx, request.NewApprovalFailedEvent(req, request.ErrCapacityExceededAtApproval.Code, now)))

	occupant, err := housing.NewOccupant(tenantID, "Ana", "", now)
	require.NoError(t, err)
	require.NoError(t, room.AddOccupant(occupant, now))
	for _, e := range room.GetDomainEvents() {
		require.NoError(t, metrics.Handle(ctx, e))
	}

	require.NoError(t, req.Approve("ok", nil, now))
	require.NoError(t, metrics.Handle(ctx, request.NewRequestApprovedEvent(req)))

	sums := collectSums(t, reader)
	assert.Equal(t, int64(1), total(sums["occupancy.requests.submitted"]))
	assert.Equal(t, int64(1), total(sums["occupancy.requests.approved"]))
	assert.Equal(t, int64(0), total(sums["occupancy.requests.rejected"]))

	failed := sums["occupancy.approvals.failed"]
	require.Len(t, failed.DataPoints, 1)
	code, ok := failed.DataPoints[0].Attributes.Value(telemetry.AttrErrorCode)
	require.True(t, ok)
	assert.Equal(t, request.ErrCapacityExceededAtApproval.Code, code.AsString())

	changes := sums["occupancy.changes"]
	require.Len(t, changes.DataPoints, 1)
	assert.Equal(t, int64(1), changes.DataPoints[0].Value)
	status, ok := changes.DataPoints[0].Attributes.Value(telemetry.AttrRoomStatus)
	require.True(t, ok)
	assert.Equal(t, attribute.StringValue(string(housing.RoomStatusFull)), status)
}
