// Package stock implements the stock ledger and movement engine.
// Every change to a product's on-hand quantity goes through Service,
// which writes the new quantity and appends an immutable movement
// record in one transaction.
package stock

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// MovementType defines the direction of a stock movement.
type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
)

// RefKind identifies the business event that originated a movement.
type RefKind string

const (
	RefStockIn    RefKind = "stock_in"
	RefStockOut   RefKind = "stock_out"
	RefAdjustment RefKind = "stock_adjustment"
)

// Movement is one immutable ledger entry recording a single stock change
// and its before/after snapshot. Movements are never updated or deleted.
type Movement struct {
	ID        id.ID        `db:"id" json:"id"`
	ProductID id.ID        `db:"product_id" json:"productId"`
	Type      MovementType `db:"movement_type" json:"movementType"`

	// Qty is the magnitude of the change, always positive.
	Qty int `db:"qty" json:"qty"`

	// PrevStock and NewStock snapshot the product's quantity
	// immediately before and after the mutation.
	PrevStock int `db:"prev_stock" json:"prevStock"`
	NewStock  int `db:"new_stock" json:"newStock"`

	// RefKind and RefID link to the originating business event
	// (receipt, issue or adjustment row).
	RefKind RefKind `db:"ref_kind" json:"refKind"`
	RefID   id.ID   `db:"ref_id" json:"refId"`

	ActorID   id.ID     `db:"actor_id" json:"actorId"`
	Remarks   *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement with a generated ID and timestamp.
func NewMovement(
	productID id.ID,
	movType MovementType,
	qty, prevStock, newStock int,
	refKind RefKind,
	refID, actorID id.ID,
	remarks *string,
) Movement {
	return Movement{
		ID:        id.New(),
		ProductID: productID,
		Type:      movType,
		Qty:       qty,
		PrevStock: prevStock,
		NewStock:  newStock,
		RefKind:   refKind,
		RefID:     refID,
		ActorID:   actorID,
		Remarks:   remarks,
		CreatedAt: time.Now().UTC(),
	}
}

// SignedQty returns the quantity with its sign: positive for IN,
// negative for OUT. For ADJUST the sign follows the snapshot delta.
func (m *Movement) SignedQty() int {
	switch m.Type {
	case MovementOut:
		return -m.Qty
	case MovementAdjust:
		return m.NewStock - m.PrevStock
	default:
		return m.Qty
	}
}

// InReceipt is the business event behind an IN movement.
type InReceipt struct {
	ID          id.ID       `db:"id" json:"id"`
	ProductID   id.ID       `db:"product_id" json:"productId"`
	Qty         int         `db:"qty" json:"qty"`
	CostPerUnit types.Money `db:"cost_per_unit" json:"costPerUnit"`
	SupplierID  *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	Remarks     *string     `db:"remarks" json:"remarks,omitempty"`
	CreatedBy   id.ID       `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// OutIssue is the business event behind an OUT movement.
type OutIssue struct {
	ID        id.ID     `db:"id" json:"id"`
	ProductID id.ID     `db:"product_id" json:"productId"`
	Qty       int       `db:"qty" json:"qty"`
	Customer  *string   `db:"customer" json:"customer,omitempty"`
	Remarks   *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedBy id.ID     `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Adjustment is the business event behind an ADJUST movement.
// CountedQty is the physically counted quantity the stock was set to.
type Adjustment struct {
	ID         id.ID     `db:"id" json:"id"`
	ProductID  id.ID     `db:"product_id" json:"productId"`
	CountedQty int       `db:"counted_qty" json:"countedQty"`
	Remarks    *string   `db:"remarks" json:"remarks,omitempty"`
	CreatedBy  id.ID     `db:"created_by" json:"createdBy"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
