package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/stock"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// StockHandler provides stock mutation and ledger endpoints.
type StockHandler struct {
	*BaseHandler
	service    *stock.Service
	ledger     stock.LedgerRepository
	reconciler *stock.Reconciler
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(
	base *BaseHandler,
	service *stock.Service,
	ledger stock.LedgerRepository,
	reconciler *stock.Reconciler,
) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
		ledger:      ledger,
		reconciler:  reconciler,
	}
}

// StockIn handles POST /stock/in.
func (h *StockHandler) StockIn(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	var req dto.StockInRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	movementID, err := h.service.RecordIn(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MovementResponse{MovementID: movementID.String()})
}

// StockOut handles POST /stock/out.
func (h *StockHandler) StockOut(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	var req dto.StockOutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	movementID, err := h.service.RecordOut(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MovementResponse{MovementID: movementID.String()})
}

// Adjust handles POST /stock/adjust (admin only; wired in the router).
func (h *StockHandler) Adjust(c *gin.Context) {
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	var req dto.AdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(actorID)
	if err != nil {
		h.Error(c, err)
		return
	}

	movementID, err := h.service.RecordAdjustment(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.MovementResponse{MovementID: movementID.String()})
}

// Movements handles GET /stock/movements.
func (h *StockHandler) Movements(c *gin.Context) {
	var req dto.MovementListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	records, total, err := h.ledger.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse{
		Items:      records,
		TotalCount: total,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
}

// Reconcile handles GET /stock/reconcile/:id, folding the ledger and
// comparing it with the live stock of one product.
func (h *StockHandler) Reconcile(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.reconciler.Reconcile(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// RegisterRoutes wires stock endpoints. The adjust route is expected to
// carry an admin guard.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup, adminGuard gin.HandlerFunc) {
	rg.POST("/in", h.StockIn)
	rg.POST("/out", h.StockOut)
	rg.POST("/adjust", adminGuard, h.Adjust)
	rg.GET("/movements", h.Movements)
	rg.GET("/reconcile/:id", adminGuard, h.Reconcile)
}
