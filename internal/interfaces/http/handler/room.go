package handler

import (
	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/boardinghouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoomHandler handles room registry endpoints
type RoomHandler struct {
	BaseHandler
	roomService *occupancy.RoomService
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomService *occupancy.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// Routes returns the /rooms route group
func (h *RoomHandler) Routes() *router.DomainGroup {
	g := router.NewDomainGroup("rooms", "/rooms")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PUT("/:id/maintenance", h.SetMaintenance)
	g.POST("/:id/occupants", h.AddOccupant)
	g.DELETE("/:id/occupants/:tenant_id", h.RemoveOccupant)
	g.GET("/:id/history", h.History)
	return g
}

// roomListQuery holds the /rooms query string
type roomListQuery struct {
	dto.ListRequest
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
}

// Create godoc
// @Summary      Create a room
// @Description  Adds an empty room to a property
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body occupancy.CreateRoomRequest true "Room details"
// @Success      201 {object} dto.Response{data=occupancy.RoomResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req occupancy.CreateRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, room)
}

// GetByID godoc
// @Summary      Get a room
// @Description  Returns a room with its derived status
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID" format(uuid)
// @Success      200 {object} dto.Response{data=occupancy.RoomResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms/{id} [get]
func (h *RoomHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// List godoc
// @Summary      List rooms
// @Description  Returns rooms, optionally narrowed to a property and a status
// @Tags         rooms
// @Produce      json
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        status query string false "Derived status" Enums(VACANT, AVAILABLE, FULL, MAINTENANCE)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]occupancy.RoomResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	var q roomListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()

	filter := occupancy.RoomListFilter{Page: q.Page, PageSize: q.PageSize}
	if q.PropertyID != "" {
		id := uuid.MustParse(q.PropertyID)
		filter.PropertyID = &id
	}
	if q.Status != "" {
		status, err := housing.ParseRoomStatus(q.Status)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		filter.Status = &status
	}

	rooms, total, err := h.roomService.ListRooms(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rooms, total, q.Page, q.PageSize)
}

// Update godoc
// @Summary      Update room details
// @Description  Replaces a room's descriptive metadata
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id path string true "Room ID" format(uuid)
// @Param        request body occupancy.UpdateRoomRequest true "Room details"
// @Success      200 {object} dto.Response{data=occupancy.RoomResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req occupancy.UpdateRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// Delete godoc
// @Summary      Delete a room
// @Description  Removes an empty room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetMaintenance godoc
// @Summary      Set the maintenance flag
// @Description  Sets or clears the maintenance flag
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id path string true "Room ID" format(uuid)
// @Param        request body occupancy.SetMaintenanceRequest true "Maintenance flag"
// @Success      200 {object} dto.Response{data=occupancy.RoomResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms/{id}/maintenance [put]
func (h *RoomHandler) SetMaintenance(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req occupancy.SetMaintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.SetMaintenance(c.Request.Context(), id, *req.Maintenance)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// AddOccupant godoc
// @Summary      Add an occupant
// @Description  Places a tenant directly, bypassing the request workflow
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id path string true "Room ID" format(uuid)
// @Param        request body occupancy.AddOccupantRequest true "Occupant"
// @Success      200 {object} dto.Response{data=occupancy.RoomResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms/{id}/occupants [post]
func (h *RoomHandler) AddOccupant(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req occupancy.AddOccupantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.AddOccupant(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// RemoveOccupant godoc
// @Summary      Remove an occupant
// @Description  Takes a tenant out of a room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID" format(uuid)
// @Param        tenant_id path string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=occupancy.RoomResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms/{id}/occupants/{tenant_id} [delete]
func (h *RoomHandler) RemoveOccupant(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	tenantID, ok := h.parseID(c, "tenant_id")
	if !ok {
		return
	}

	room, err := h.roomService.RemoveOccupant(c.Request.Context(), id, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// History godoc
// @Summary      Get occupancy history
// @Description  Returns the room's occupancy records, newest first
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]occupancy.OccupancyRecordResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /rooms/{id}/history [get]
func (h *RoomHandler) History(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()

	records, total, err := h.roomService.GetHistory(c.Request.Context(), id, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, q.Page, q.PageSize)
}
