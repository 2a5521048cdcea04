// Package handler exposes the occupancy services over HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"github.com/boardinghouse/backend/internal/infrastructure/logger"
	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/boardinghouse/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// getUserID returns the caller from the X-User-ID header. A missing header
// yields nil; a malformed one is an error.
func getUserID(c *gin.Context) (*uuid.UUID, error) {
	raw := c.GetHeader(middleware.UserIDHeader)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseID parses the named path parameter as a UUID and answers 400 when it
// is not one
func (h *BaseHandler) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, "Invalid "+param+" format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body into obj. Decoding failures answer 400 with
// ERR_INVALID_JSON and binding tag failures list the offending fields.
func (h *BaseHandler) bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// bindQuery is bindJSON for query strings
func (h *BaseHandler) bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	if middleware.IsValidationError(err) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps domain errors, wrapped or not, to their status and
// public code. Anything else is logged and answered with 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		statusCode := dto.GetHTTPStatus(code)
		c.JSON(statusCode, dto.NewDomainErrorResponse(code, domainErr.Message, getRequestID(c), domainErr.Details))
		return
	}

	_ = c.Error(err)
	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}
