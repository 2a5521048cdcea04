package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the HTTP request ID in ctx and attaches a logger
// carrying it
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, logger.With(zap.String("request_id", requestID)))
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// TraceFields returns trace_id and span_id for the span in ctx, or nothing
// when there is no valid span
func TraceFields(ctx context.Context) []zap.Field {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	}
}

// L returns the context logger enriched with trace correlation fields.
// Usage: logger.L(ctx).Info("message", zap.String("key", "value"))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	if fields := TraceFields(ctx); len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}
