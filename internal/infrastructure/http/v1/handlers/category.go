package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/catalogs/category"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// CategoryHandler provides category catalog endpoints.
type CategoryHandler struct {
	*BaseHandler
	service *category.Service
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(base *BaseHandler, service *category.Service) *CategoryHandler {
	return &CategoryHandler{BaseHandler: base, service: service}
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cat.ID.String())
}

// Update handles PUT /categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(cat)

	if err := h.service.Update(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "category updated")
}

// Delete handles DELETE /categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), categoryID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cat)
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if !h.BindQuery(c, &page) {
		return
	}
	page.Defaults()

	categories, total, err := h.service.List(c.Request.Context(), c.Query("search"), page.PageSize, page.Offset())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      categories,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
	})
}

// RegisterRoutes wires category endpoints.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
