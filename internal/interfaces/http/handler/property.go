package handler

import (
	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/boardinghouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService *occupancy.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *occupancy.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Routes returns the /properties route group
func (h *PropertyHandler) Routes() *router.DomainGroup {
	g := router.NewDomainGroup("properties", "/properties")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	return g
}

// Create godoc
// @Summary      Register a property
// @Description  Registers a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body occupancy.CreatePropertyRequest true "Property details"
// @Success      201 {object} dto.Response{data=occupancy.PropertyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var req occupancy.CreatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, property)
}

// GetByID godoc
// @Summary      Get a property
// @Description  Returns one property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=occupancy.PropertyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /properties/{id} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, property)
}

// List godoc
// @Summary      List properties
// @Description  Returns a page of properties
// @Tags         properties
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]occupancy.PropertyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	var q dto.ListRequest
	if !h.bindQuery(c, &q) {
		return
	}
	q.Normalize()

	properties, total, err := h.propertyService.List(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, properties, total, q.Page, q.PageSize)
}

// Update godoc
// @Summary      Update a property
// @Description  Changes a property's name and address
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Param        request body occupancy.UpdatePropertyRequest true "Property details"
// @Success      200 {object} dto.Response{data=occupancy.PropertyResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req occupancy.UpdatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, property)
}
