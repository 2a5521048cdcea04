package event

import (
	"context"

	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler writes one structured log line per domain event. It stands
// in for the notification collaborator, which consumes the same events.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.Named("events")}
}

// EventTypes returns nil, subscribing to every event
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with its identifying fields
func (h *LoggingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", e.EventType()),
		zap.String("event_id", e.EventID().String()),
		zap.String("aggregate_type", e.AggregateType()),
		zap.String("aggregate_id", e.AggregateID().String()),
		zap.Time("occurred_at", e.OccurredAt()),
	}

	switch ev := e.(type) {
	case *housing.OccupancyChangedEvent:
		fields = append(fields,
			zap.String("room_id", ev.RoomID.String()),
			zap.String("tenant_id", ev.TenantID.String()),
			zap.String("change", string(ev.Change)),
			zap.Int("occupant_count", ev.OccupantCount),
			zap.Int("capacity", ev.Capacity),
			zap.String("status", string(ev.Status)),
		)
	case *request.RequestApprovedEvent:
		fields = append(fields,
			zap.String("request_id", ev.RequestID.String()),
			zap.String("tenant_id", ev.TenantID.String()),
			zap.String("kind", string(ev.Kind)),
		)
	case *request.RequestRejectedEvent:
		fields = append(fields,
			zap.String("request_id", ev.RequestID.String()),
			zap.String("tenant_id", ev.TenantID.String()),
			zap.String("kind", string(ev.Kind)),
		)
	case *request.ApprovalFailedEvent:
		fields = append(fields,
			zap.String("request_id", ev.RequestID.String()),
			zap.String("error_code", ev.ErrorCode),
		)
		h.logger.Warn("Domain event", fields...)
		return nil
	}

	h.logger.Info("Domain event", fields...)
	return nil
}
