package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/reports"
	"stockroom/internal/domain/stock"
	"stockroom/internal/infrastructure/export"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// exportPageSize bounds rows per repository call for CSV streams.
const exportPageSize = 1000

// ExportHandler provides CSV and snapshot download endpoints.
type ExportHandler struct {
	*BaseHandler
	products    *product.Service
	ledger      stock.LedgerRepository
	reports     *reports.Service
	snapshotter *export.Snapshotter
}

// NewExportHandler creates a new export handler.
func NewExportHandler(
	base *BaseHandler,
	products *product.Service,
	ledger stock.LedgerRepository,
	reportsService *reports.Service,
	snapshotter *export.Snapshotter,
) *ExportHandler {
	return &ExportHandler{
		BaseHandler: base,
		products:    products,
		ledger:      ledger,
		reports:     reportsService,
		snapshotter: snapshotter,
	}
}

// Products handles GET /export/products.csv.
func (h *ExportHandler) Products(c *gin.Context) {
	var all []*product.Product
	for offset := 0; ; offset += exportPageSize {
		page, _, err := h.products.List(c.Request.Context(), product.ListFilter{
			Limit:  exportPageSize,
			Offset: offset,
		})
		if err != nil {
			h.Error(c, err)
			return
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	setAttachmentHeaders(c, "products", "csv", "text/csv")
	if err := export.WriteProductsCSV(c.Writer, all); err != nil {
		h.Error(c, err)
	}
}

// Movements handles GET /export/movements.csv with the same filters as
// the movements screen.
func (h *ExportHandler) Movements(c *gin.Context) {
	var req dto.MovementListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	var all []stock.MovementRecord
	filter.Limit = exportPageSize
	for offset := 0; ; offset += exportPageSize {
		filter.Offset = offset
		page, _, err := h.ledger.List(c.Request.Context(), filter)
		if err != nil {
			h.Error(c, err)
			return
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	setAttachmentHeaders(c, "movements", "csv", "text/csv")
	if err := export.WriteMovementsCSV(c.Writer, all); err != nil {
		h.Error(c, err)
	}
}

// LowStock handles GET /export/low-stock.csv.
func (h *ExportHandler) LowStock(c *gin.Context) {
	items, err := h.reports.GetLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	setAttachmentHeaders(c, "low-stock", "csv", "text/csv")
	if err := export.WriteLowStockCSV(c.Writer, items); err != nil {
		h.Error(c, err)
	}
}

// Snapshot handles GET /export/snapshot, streaming the full database
// content as zstd-compressed JSON. Admin only; wired in the router.
func (h *ExportHandler) Snapshot(c *gin.Context) {
	snap, err := h.snapshotter.Build(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	setAttachmentHeaders(c, "snapshot", "json.zst", "application/zstd")
	if err := export.WriteSnapshot(c.Writer, snap); err != nil {
		h.Error(c, err)
	}
}

// RegisterRoutes wires export endpoints. The snapshot route is expected
// to carry an admin guard.
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup, adminGuard gin.HandlerFunc) {
	rg.GET("/products.csv", h.Products)
	rg.GET("/movements.csv", h.Movements)
	rg.GET("/low-stock.csv", h.LowStock)
	rg.GET("/snapshot", adminGuard, h.Snapshot)
}

func setAttachmentHeaders(c *gin.Context, name, ext, contentType string) {
	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().UTC().Format("20060102-150405"), ext)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
}
