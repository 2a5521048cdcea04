package telemetry

import (
	"context"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

const occupancyMeterName = "github.com/boardinghouse/backend/occupancy"

// OccupancyMetrics counts request outcomes and occupancy changes. It is an
// event handler subscribed to the event bus.
type OccupancyMetrics struct {
	submitted      *Counter
	approved       *Counter
	rejected       *Counter
	approvalFailed *Counter
	changes        *Counter
}

// NewOccupancyMetrics registers the occupancy instruments on meter
func NewOccupancyMetrics(meter metric.Meter) (*OccupancyMetrics, error) {
	m := &OccupancyMetrics{}
	instruments := []struct {
		target      **Counter
		name        string
		description string
	}{
		{&m.submitted, "occupancy.requests.submitted", "Requests accepted as pending"},
		{&m.approved, "occupancy.requests.approved", "Requests approved and applied"},
		{&m.rejected, "occupancy.requests.rejected", "Requests rejected"},
		{&m.approvalFailed, "occupancy.approvals.failed", "Approvals that left the request pending"},
		{&m.changes, "occupancy.changes", "Occupants added to or removed from rooms"},
	}
	for _, inst := range instruments {
		c, err := NewCounter(meter, inst.name, inst.description, "{event}")
		if err != nil {
			return nil, err
		}
		*inst.target = c
	}
	return m, nil
}

// NewOccupancyMetricsFromProvider registers the instruments on mp's meter
func NewOccupancyMetricsFromProvider(mp *MeterProvider) (*OccupancyMetrics, error) {
	return NewOccupancyMetrics(mp.Meter(occupancyMeterName))
}

// EventTypes implements shared.EventHandler
func (m *OccupancyMetrics) EventTypes() []string {
	return []string{
		request.EventTypeRequestSubmitted,
		request.EventTypeRequestApproved,
		request.EventTypeRequestRejected,
		request.EventTypeApprovalFailed,
		housing.EventTypeOccupancyChanged,
	}
}

// Handle implements shared.EventHandler
func (m *OccupancyMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *request.RequestSubmittedEvent:
		m.submitted.Inc(ctx, AttrRequestKind.String(string(e.Kind)))
	case *request.RequestApprovedEvent:
		m.approved.Inc(ctx, AttrRequestKind.String(string(e.Kind)))
	case *request.RequestRejectedEvent:
		m.rejected.Inc(ctx, AttrRequestKind.String(string(e.Kind)))
	case *request.ApprovalFailedEvent:
		m.approvalFailed.Inc(ctx,
			AttrRequestKind.String(string(e.Kind)),
			AttrErrorCode.String(e.ErrorCode),
		)
	case *housing.OccupancyChangedEvent:
		m.changes.Inc(ctx,
			AttrChange.String(string(e.Change)),
			AttrRoomStatus.String(string(e.Status)),
		)
	}
	return nil
}

var _ shared.EventHandler = (*OccupancyMetrics)(nil)
