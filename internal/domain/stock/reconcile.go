package stock

import (
	"context"
	"fmt"

	"stockroom/internal/core/id"
)

// Reconciler recomputes a product's stock by folding its ledger and
// compares the result against the stored quantity. Integrity aid for
// audits and tests, not invoked on the mutation path.
type Reconciler struct {
	products ProductStockRepository
	ledger   LedgerRepository
}

// NewReconciler creates a reconciliation checker.
func NewReconciler(products ProductStockRepository, ledger LedgerRepository) *Reconciler {
	return &Reconciler{products: products, ledger: ledger}
}

// Report is the outcome of one reconciliation run.
type Report struct {
	ProductID     id.ID `json:"productId"`
	InitialStock  int   `json:"initialStock"`
	LedgerDelta   int   `json:"ledgerDelta"`
	ExpectedStock int   `json:"expectedStock"`
	ActualStock   int   `json:"actualStock"`
	MovementCount int   `json:"movementCount"`
	Consistent    bool  `json:"consistent"`
}

// Reconcile folds all movements for a product in creation order from its
// initial (pre-ledger) stock and compares the fold with the live value.
// The initial stock is the PrevStock snapshot of the earliest movement;
// a product with no movements is consistent by definition.
//
// It also verifies that every snapshot pair is arithmetically sound and
// that consecutive movements chain (each PrevStock equals the previous
// NewStock).
func (r *Reconciler) Reconcile(ctx context.Context, productID id.ID) (Report, error) {
	actual, err := r.products.GetStock(ctx, productID)
	if err != nil {
		return Report{}, fmt.Errorf("get stock: %w", err)
	}

	movements, err := r.ledger.ListByProduct(ctx, productID)
	if err != nil {
		return Report{}, fmt.Errorf("list movements: %w", err)
	}

	report := Report{
		ProductID:     productID,
		ActualStock:   actual,
		MovementCount: len(movements),
	}

	if len(movements) == 0 {
		report.InitialStock = actual
		report.ExpectedStock = actual
		report.Consistent = true
		return report, nil
	}

	report.InitialStock = movements[0].PrevStock

	chained := true
	running := report.InitialStock
	for _, m := range movements {
		if m.PrevStock != running || m.NewStock != m.PrevStock+m.SignedQty() {
			chained = false
		}
		report.LedgerDelta += m.SignedQty()
		running = m.NewStock
	}

	report.ExpectedStock = report.InitialStock + report.LedgerDelta
	report.Consistent = chained && report.ExpectedStock == actual
	return report, nil
}
