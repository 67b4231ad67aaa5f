package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// SupplierHandler provides supplier catalog endpoints.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// Create handles POST /suppliers.
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sup.ID.String())
}

// Update handles PUT /suppliers/:id.
func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(sup)

	if err := h.service.Update(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "supplier updated")
}

// Delete handles DELETE /suppliers/:id.
func (h *SupplierHandler) Delete(c *gin.Context) {
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Get handles GET /suppliers/:id.
func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sup)
}

// List handles GET /suppliers.
func (h *SupplierHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if !h.BindQuery(c, &page) {
		return
	}
	page.Defaults()

	suppliers, total, err := h.service.List(c.Request.Context(), c.Query("search"), page.PageSize, page.Offset())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      suppliers,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
	})
}

// RegisterRoutes wires supplier endpoints.
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
