package stock

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/internal/core/types"
	"stockroom/pkg/logger"
)

// Service is the sole path by which a product's stock changes as a
// business event. Each successful call writes the new quantity, the
// originating event row and exactly one ledger movement atomically.
//
// Replaying an identical call produces a second movement and applies the
// quantity change again. Retries are the caller's responsibility.
//
// Mutations do not check the product's active/inactive status.
type Service struct {
	products  ProductStockRepository
	ledger    LedgerRepository
	receipts  ReceiptRepository
	txManager tx.Manager
}

// NewService creates the stock mutation service. The transaction manager
// is injected explicitly; the service owns no global state.
func NewService(
	products ProductStockRepository,
	ledger LedgerRepository,
	receipts ReceiptRepository,
	txManager tx.Manager,
) *Service {
	return &Service{
		products:  products,
		ledger:    ledger,
		receipts:  receipts,
		txManager: txManager,
	}
}

// RecordInInput carries a stock receipt request.
type RecordInInput struct {
	ProductID   id.ID
	Qty         int
	CostPerUnit types.Money
	SupplierID  *id.ID
	Remarks     *string
	ActorID     id.ID
}

// RecordOutInput carries a stock issue request.
type RecordOutInput struct {
	ProductID id.ID
	Qty       int
	Customer  *string
	Remarks   *string
	ActorID   id.ID
}

// RecordAdjustmentInput carries a physical-count correction request.
type RecordAdjustmentInput struct {
	ProductID  id.ID
	CountedQty int
	Remarks    *string
	ActorID    id.ID
}

// RecordIn increases the product's stock by Qty and appends an IN
// movement. Returns the movement identifier.
func (s *Service) RecordIn(ctx context.Context, in RecordInInput) (id.ID, error) {
	// Validation happens before any lock is taken.
	if in.Qty <= 0 {
		return id.Nil(), apperror.NewValidation("quantity must be a positive integer")
	}
	if in.CostPerUnit.IsNegative() {
		return id.Nil(), apperror.NewValidation("cost per unit must be >= 0")
	}
	if id.IsNil(in.ActorID) {
		return id.Nil(), apperror.NewValidation("actor is required")
	}

	var movementID id.ID
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.products.LockStock(ctx, in.ProductID)
		if err != nil {
			return err
		}
		newStock := prev + in.Qty

		receipt := InReceipt{
			ID:          id.New(),
			ProductID:   in.ProductID,
			Qty:         in.Qty,
			CostPerUnit: in.CostPerUnit,
			SupplierID:  in.SupplierID,
			Remarks:     in.Remarks,
			CreatedBy:   in.ActorID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.receipts.CreateStockIn(ctx, receipt); err != nil {
			return fmt.Errorf("create receipt: %w", err)
		}

		if err := s.products.WriteStock(ctx, in.ProductID, newStock); err != nil {
			return fmt.Errorf("write stock: %w", err)
		}

		m := NewMovement(in.ProductID, MovementIn, in.Qty, prev, newStock,
			RefStockIn, receipt.ID, in.ActorID, in.Remarks)
		if err := s.ledger.Append(ctx, m); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		movementID = m.ID
		return nil
	})
	if err != nil {
		return id.Nil(), asMutationError(err)
	}

	logger.Info(ctx, "stock in recorded",
		"product_id", in.ProductID,
		"qty", in.Qty,
		"movement_id", movementID,
	)
	return movementID, nil
}

// RecordOut decreases the product's stock by Qty and appends an OUT
// movement. Fails with INSUFFICIENT_STOCK when Qty exceeds the current
// quantity; in that case nothing is written.
func (s *Service) RecordOut(ctx context.Context, in RecordOutInput) (id.ID, error) {
	if in.Qty <= 0 {
		return id.Nil(), apperror.NewValidation("quantity must be a positive integer")
	}
	if id.IsNil(in.ActorID) {
		return id.Nil(), apperror.NewValidation("actor is required")
	}

	var movementID id.ID
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.products.LockStock(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if in.Qty > prev {
			// Abort the transaction: the row stays untouched and the
			// lock is released by the rollback.
			return apperror.NewInsufficientStock(in.ProductID.String(), in.Qty, prev)
		}
		newStock := prev - in.Qty

		issue := OutIssue{
			ID:        id.New(),
			ProductID: in.ProductID,
			Qty:       in.Qty,
			Customer:  in.Customer,
			Remarks:   in.Remarks,
			CreatedBy: in.ActorID,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.receipts.CreateStockOut(ctx, issue); err != nil {
			return fmt.Errorf("create issue: %w", err)
		}

		if err := s.products.WriteStock(ctx, in.ProductID, newStock); err != nil {
			return fmt.Errorf("write stock: %w", err)
		}

		m := NewMovement(in.ProductID, MovementOut, in.Qty, prev, newStock,
			RefStockOut, issue.ID, in.ActorID, in.Remarks)
		if err := s.ledger.Append(ctx, m); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		movementID = m.ID
		return nil
	})
	if err != nil {
		return id.Nil(), asMutationError(err)
	}

	logger.Info(ctx, "stock out recorded",
		"product_id", in.ProductID,
		"qty", in.Qty,
		"movement_id", movementID,
	)
	return movementID, nil
}

// RecordAdjustment sets the product's stock to a physically counted
// quantity and appends an ADJUST movement whose qty is the absolute
// delta. A count equal to the current stock is rejected rather than
// recorded as a zero movement.
func (s *Service) RecordAdjustment(ctx context.Context, in RecordAdjustmentInput) (id.ID, error) {
	if in.CountedQty < 0 {
		return id.Nil(), apperror.NewValidation("counted quantity must be >= 0")
	}
	if id.IsNil(in.ActorID) {
		return id.Nil(), apperror.NewValidation("actor is required")
	}

	var movementID id.ID
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.products.LockStock(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if in.CountedQty == prev {
			return apperror.NewValidation("stock is already at the counted quantity").
				WithDetail("stock", prev)
		}
		delta := in.CountedQty - prev
		qty := delta
		if qty < 0 {
			qty = -qty
		}

		adj := Adjustment{
			ID:         id.New(),
			ProductID:  in.ProductID,
			CountedQty: in.CountedQty,
			Remarks:    in.Remarks,
			CreatedBy:  in.ActorID,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.receipts.CreateAdjustment(ctx, adj); err != nil {
			return fmt.Errorf("create adjustment: %w", err)
		}

		if err := s.products.WriteStock(ctx, in.ProductID, in.CountedQty); err != nil {
			return fmt.Errorf("write stock: %w", err)
		}

		m := NewMovement(in.ProductID, MovementAdjust, qty, prev, in.CountedQty,
			RefAdjustment, adj.ID, in.ActorID, in.Remarks)
		if err := s.ledger.Append(ctx, m); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		movementID = m.ID
		return nil
	})
	if err != nil {
		return id.Nil(), asMutationError(err)
	}

	logger.Info(ctx, "stock adjustment recorded",
		"product_id", in.ProductID,
		"counted_qty", in.CountedQty,
		"movement_id", movementID,
	)
	return movementID, nil
}

// asMutationError preserves typed business errors and classifies
// everything else as a transaction failure. The transaction boundary
// guarantees no partial state was applied.
func asMutationError(err error) error {
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}
	return apperror.NewTransactionFailure(err)
}
