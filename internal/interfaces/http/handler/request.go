package handler

import (
	"context"

	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/domain/request"
	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/boardinghouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestHandler handles occupancy request endpoints
type RequestHandler struct {
	BaseHandler
	requestService *occupancy.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService *occupancy.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// Routes returns the /requests route group
func (h *RequestHandler) Routes() *router.DomainGroup {
	g := router.NewDomainGroup("requests", "/requests")
	g.POST("/new-assignment", h.SubmitNewAssignment)
	g.POST("/transfer", h.SubmitTransfer)
	g.POST("/move-out", h.SubmitMoveOut)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	return g
}

// requestListQuery holds the /requests query string
type requestListQuery struct {
	dto.ListRequest
	TenantID string `form:"tenant_id" binding:"omitempty,uuid"`
	Status   string `form:"status"`
	Kind     string `form:"kind"`
}

// SubmitNewAssignment godoc
// @Summary      Submit a new assignment request
// @Description  Files a request for a first room
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        request body occupancy.SubmitNewAssignmentRequest true "New assignment"
// @Success      201 {object} dto.Response{data=occupancy.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /requests/new-assignment [post]
func (h *RequestHandler) SubmitNewAssignment(c *gin.Context) {
	var req occupancy.SubmitNewAssignmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.submitted(c)(h.requestService.SubmitNewAssignment(c.Request.Context(), req))
}

// SubmitTransfer godoc
// @Summary      Submit a transfer request
// @Description  Files a request to move between rooms
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        request body occupancy.SubmitTransferRequest true "Transfer"
// @Success      201 {object} dto.Response{data=occupancy.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /requests/transfer [post]
func (h *RequestHandler) SubmitTransfer(c *gin.Context) {
	var req occupancy.SubmitTransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.submitted(c)(h.requestService.SubmitTransfer(c.Request.Context(), req))
}

// SubmitMoveOut godoc
// @Summary      Submit a move-out request
// @Description  Files a request to vacate a room
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        request body occupancy.SubmitMoveOutRequest true "Move-out"
// @Success      201 {object} dto.Response{data=occupancy.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /requests/move-out [post]
func (h *RequestHandler) SubmitMoveOut(c *gin.Context) {
	var req occupancy.SubmitMoveOutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.submitted(c)(h.requestService.SubmitMoveOut(c.Request.Context(), req))
}

func (h *RequestHandler) submitted(c *gin.Context) func(*occupancy.RequestResponse, error) {
	return func(resp *occupancy.RequestResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, resp)
	}
}

// GetByID godoc
// @Summary      Get a request
// @Description  Returns one request
// @Tags         requests
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Success      200 {object} dto.Response{data=occupancy.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /requests/{id} [get]
func (h *RequestHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	resp, err := h.requestService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List requests
// @Description  Returns requests filtered by tenant, status and kind, newest first
// @Tags         requests
// @Produce      json
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        status query string false "Status" Enums(PENDING, APPROVED, REJECTED)
// @Param        kind query string false "Kind" Enums(NEW_ASSIGNMENT, TRANSFER, MOVE_OUT)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]occupancy.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	var q requestListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()

	filter := occupancy.RequestListFilter{Page: q.Page, PageSize: q.PageSize}
	if q.TenantID != "" {
		id := uuid.MustParse(q.TenantID)
		filter.TenantID = &id
	}
	if q.Status != "" {
		status, err := request.ParseStatus(q.Status)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		filter.Status = &status
	}
	if q.Kind != "" {
		kind, err := request.ParseKind(q.Kind)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		filter.Kind = &kind
	}

	requests, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, requests, total, q.Page, q.PageSize)
}

// Approve godoc
// @Summary      Approve a request
// @Description  Approves a pending request and applies its occupancy change. When the change fails the request stays pending and the failure is returned as is.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        X-User-ID header string false "Responding administrator" format(uuid)
// @Param        request body occupancy.RespondRequest false "Response message"
// @Success      200 {object} dto.Response{data=occupancy.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	h.respond(c, h.requestService.Approve)
}

// Reject godoc
// @Summary      Reject a request
// @Description  Rejects a pending request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID" format(uuid)
// @Param        X-User-ID header string false "Responding administrator" format(uuid)
// @Param        request body occupancy.RespondRequest false "Response message"
// @Success      200 {object} dto.Response{data=occupancy.RequestResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *gin.Context) {
	h.respond(c, h.requestService.Reject)
}

type respondFunc func(ctx context.Context, id uuid.UUID, message string, respondedBy *uuid.UUID) (*occupancy.RequestResponse, error)

func (h *RequestHandler) respond(c *gin.Context, fn respondFunc) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	respondedBy, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid X-User-ID header")
		return
	}

	// The body is optional: an empty POST responds without a message
	var req occupancy.RespondRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := fn(c.Request.Context(), id, req.Message, respondedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
