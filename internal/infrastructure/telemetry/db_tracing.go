package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables in spans
	SlowQueryThresh time.Duration // zero disables slow query marking
	DBSystem        string
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

// DefaultDBTracingConfig returns the defaults: disabled, variables hidden
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin installs otelgorm plus slow query annotation on spans
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the plugin on db. The timing callbacks go first so the
// after-callback still sees the otelgorm span recording.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	if p.config.SlowQueryThresh > 0 {
		if err := p.registerTimingCallbacks(db); err != nil {
			return err
		}
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("timing:before_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("timing:before_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("timing:before_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("timing:before_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("timing:before_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("timing:before_raw", markQueryStart),

		cb.Create().After("gorm:create").Register("timing:after_create", p.annotateSlowQuery),
		cb.Query().After("gorm:query").Register("timing:after_query", p.annotateSlowQuery),
		cb.Update().After("gorm:update").Register("timing:after_update", p.annotateSlowQuery),
		cb.Delete().After("gorm:delete").Register("timing:after_delete", p.annotateSlowQuery),
		cb.Row().After("gorm:row").Register("timing:after_row", p.annotateSlowQuery),
		cb.Raw().After("gorm:raw").Register("timing:after_raw", p.annotateSlowQuery),
	)
}

type contextKey string

const queryStartTimeKey contextKey = "query_start_time"

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) annotateSlowQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed <= p.config.SlowQueryThresh {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
	p.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
	)
}
