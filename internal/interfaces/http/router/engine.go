package router

import (
	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/boardinghouse/backend/internal/infrastructure/logger"
	"github.com/boardinghouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig configures the gin engine and its middleware stack
type EngineConfig struct {
	Env     string
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig
	Logger  *zap.Logger
}

// NewEngine creates a gin engine with the middleware stack applied in order:
// request ID, tracing, recovery, request logging, security headers, CORS and
// the body size limit.
func NewEngine(cfg EngineConfig) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(
		middleware.TracingWithConfig(cfg.Tracing),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
	)
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	return engine
}
