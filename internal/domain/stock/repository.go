package stock

import (
	"context"
	"time"

	"stockroom/internal/core/id"
)

// ProductStockRepository is the mutation engine's view of product storage.
// All methods must be called inside a transaction managed by tx.Manager.
type ProductStockRepository interface {
	// LockStock acquires an exclusive row lock on the product and returns
	// its current stock. Blocks until a concurrent holder commits or
	// rolls back. Returns NOT_FOUND if the product does not exist.
	LockStock(ctx context.Context, productID id.ID) (int, error)

	// WriteStock sets the product's stock. Must run inside the same
	// transaction that appended the corresponding ledger entry.
	WriteStock(ctx context.Context, productID id.ID, newStock int) error

	// GetStock reads the current stock without locking.
	GetStock(ctx context.Context, productID id.ID) (int, error)
}

// LedgerRepository is the append-only movement store. The core never
// updates or deletes committed movements; there are no such operations.
type LedgerRepository interface {
	// Append inserts one movement as part of the enclosing transaction.
	Append(ctx context.Context, m Movement) error

	// ListByProduct returns all movements for a product in creation
	// order, for reconciliation.
	ListByProduct(ctx context.Context, productID id.ID) ([]Movement, error)

	// List returns movements matching the filter, newest first, with
	// the total count for pagination. Read-only reporting access.
	List(ctx context.Context, filter MovementFilter) ([]MovementRecord, int64, error)
}

// ReceiptRepository persists the originating business-event rows that
// movements reference through RefKind/RefID.
type ReceiptRepository interface {
	CreateStockIn(ctx context.Context, r InReceipt) error
	CreateStockOut(ctx context.Context, o OutIssue) error
	CreateAdjustment(ctx context.Context, a Adjustment) error
}

// MovementFilter narrows ledger listing for screens and exports.
// FromDate is inclusive, ToDate exclusive (half-open range).
type MovementFilter struct {
	ProductID *id.ID
	Type      *MovementType
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	Offset    int
}

// MovementRecord is a movement joined with product and actor names for
// listing screens. Produced by the read side only.
type MovementRecord struct {
	Movement
	ProductSKU  string `db:"product_sku" json:"productSku"`
	ProductName string `db:"product_name" json:"productName"`
	ActorName   string `db:"actor_name" json:"actorName"`
}
