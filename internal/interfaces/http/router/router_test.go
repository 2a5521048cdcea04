package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	rooms := NewDomainGroup("rooms", "/rooms")
	rooms.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	rooms.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	rooms.DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	var seen []string
	r.Use(func(c *gin.Context) {
		seen = append(seen, c.FullPath())
		c.Next()
	})
	r.Register(rooms).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/rooms")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/rooms/abc")
	assert.Equal(t, "abc", w.Body.String())

	w = serve(engine, http.MethodDelete, "/api/v1/rooms/abc")
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, []string{"/api/v1/rooms", "/api/v1/rooms/:id", "/api/v1/rooms/:id"}, seen)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		dg := NewDomainGroup("requests", "/requests")
		assert.Equal(t, "requests", dg.Name())
		assert.Equal(t, "/requests", dg.Prefix())
	})

	t.Run("applies group middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		dg := NewDomainGroup("rooms", "/rooms").Use(func(c *gin.Context) {
			c.Header("X-Group", "rooms")
			c.Next()
		})
		occupants := dg.Group("occupants", "/:id/occupants")
		occupants.POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })
		occupants.PUT("/:tenant_id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("tenant_id")) })

		dg.RegisterRoutes(engine.Group("/api"))

		w := serve(engine, http.MethodPost, "/api/rooms/1/occupants")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "rooms", w.Header().Get("X-Group"))

		w = serve(engine, http.MethodPut, "/api/rooms/1/occupants/t-9")
		assert.Equal(t, "t-9", w.Body.String())
	})
}

func TestNewEngine(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	engine := NewEngine(EngineConfig{
		HTTP:   config.HTTPConfig{MaxBodySize: 16},
		Logger: zap.New(core),
	})
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })
	engine.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("recovers panics and logs them", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
	})

	t.Run("sets security headers", func(t *testing.T) {
		w := serve(engine, http.MethodPost, "/echo")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})

	t.Run("limits body size", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", nil)
		req.ContentLength = 1024
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
