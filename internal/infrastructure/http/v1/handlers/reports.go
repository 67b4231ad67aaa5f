package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/reports"
)

// ReportsHandler provides dashboard and report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dashboard)
}

// LowStock handles GET /reports/low-stock.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	items, err := h.service.GetLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": items, "count": len(items)})
}

// RegisterRoutes wires report endpoints.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/low-stock", h.LowStock)
}
