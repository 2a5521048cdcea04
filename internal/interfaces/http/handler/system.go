package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/boardinghouse/backend/internal/infrastructure/logger"
	"github.com/boardinghouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger checks a dependency's connectivity
type Pinger interface {
	Ping() error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	db        Pinger
}

// NewSystemHandler creates a new SystemHandler. db may be nil, in which case
// Health reports only the process itself.
func NewSystemHandler(name, version string, db Pinger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		db:        db,
	}
}

// Routes returns the /system route group
func (h *SystemHandler) Routes() *router.DomainGroup {
	g := router.NewDomainGroup("system", "/system")
	g.GET("/info", h.GetSystemInfo)
	g.GET("/ping", h.Ping)
	return g
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo godoc
// @Summary      Get system information
// @Description  Returns version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping godoc
// @Summary      Ping the API
// @Description  Answers pong
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=PingResponse}
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports 503 when the database cannot be reached
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "healthy",
		Time:     time.Now().Format(time.RFC3339),
		Database: "ok",
	}
	if h.db == nil {
		resp.Database = "unconfigured"
		c.JSON(http.StatusOK, resp)
		return
	}
	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

