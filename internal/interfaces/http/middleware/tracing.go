// Package middleware provides the gin middleware of the occupancy API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds request IDs accepted from clients.
const MaxRequestIDLength = 128

// UserIDHeader identifies the caller. It is recorded as the responder on
// approve and reject.
const UserIDHeader = "X-User-ID"

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
	// TracerProvider overrides the global provider when set.
	TracerProvider trace.TracerProvider
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "boardinghouse-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin middleware, or a pass-through when
// tracing is disabled. The span is named after the route pattern, e.g.
// "/api/v1/rooms/:id". Place TracingAttributeInjector and SpanErrorMarker
// after it so they run inside the span.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	var opts []otelgin.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// TracingAttributeInjector adds request_id and user_id to the current span.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpanWithAttributes(c, span)
		}
		c.Next()
	}
}

func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if userID := getUserID(c); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
}

// getUserID returns the X-User-ID header when it holds a UUID, so arbitrary
// header text never lands in trace data.
func getUserID(c *gin.Context) string {
	raw := c.GetHeader(UserIDHeader)
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}

// SpanErrorMarker marks the span as failed for 4xx and 5xx responses.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		var errorMessage string
		switch {
		case statusCode >= http.StatusInternalServerError:
			errorMessage = "Internal Server Error"
		case statusCode == http.StatusNotFound:
			errorMessage = "Not Found"
		case statusCode == http.StatusConflict:
			errorMessage = "Conflict"
		default:
			errorMessage = "Client Error"
		}
		span.SetStatus(codes.Error, errorMessage)
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}
