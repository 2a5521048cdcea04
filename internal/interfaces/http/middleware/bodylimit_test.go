package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	t.Run("allows request within limit", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(1024))
		router.POST("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader([]byte("small body")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects request exceeding Content-Length limit", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(100))
		router.POST("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader([]byte(strings.Repeat("x", 200))))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeRequestTooLarge)
	})

	t.Run("limits bodies without Content-Length while reading", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(50))
		router.POST("/test", func(c *gin.Context) {
			buf := make([]byte, 200)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
