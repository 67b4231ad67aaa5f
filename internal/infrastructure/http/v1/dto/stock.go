package dto

import (
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/stock"
)

// StockInRequest represents a stock receipt.
type StockInRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	Qty         int     `json:"qty" binding:"required,gt=0"`
	CostPerUnit string  `json:"costPerUnit,omitempty"`
	SupplierID  *string `json:"supplierId,omitempty"`
	Remarks     *string `json:"remarks,omitempty"`
}

// ToInput converts the request to the engine's input.
func (r *StockInRequest) ToInput(actorID id.ID) (stock.RecordInInput, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return stock.RecordInInput{}, apperror.NewValidation("invalid product id").WithDetail("value", r.ProductID)
	}

	in := stock.RecordInInput{
		ProductID:   productID,
		Qty:         r.Qty,
		CostPerUnit: types.ZeroMoney(),
		Remarks:     r.Remarks,
		ActorID:     actorID,
	}
	if r.CostPerUnit != "" {
		m, err := types.NewMoneyFromString(r.CostPerUnit)
		if err != nil {
			return stock.RecordInInput{}, apperror.NewValidation("invalid cost per unit").WithDetail("value", r.CostPerUnit)
		}
		in.CostPerUnit = m
	}
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return stock.RecordInInput{}, apperror.NewValidation("invalid supplier id").WithDetail("value", *r.SupplierID)
		}
		in.SupplierID = &supplierID
	}
	return in, nil
}

// StockOutRequest represents a stock issue.
type StockOutRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Qty       int     `json:"qty" binding:"required,gt=0"`
	Customer  *string `json:"customer,omitempty"`
	Remarks   *string `json:"remarks,omitempty"`
}

// ToInput converts the request to the engine's input.
func (r *StockOutRequest) ToInput(actorID id.ID) (stock.RecordOutInput, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return stock.RecordOutInput{}, apperror.NewValidation("invalid product id").WithDetail("value", r.ProductID)
	}
	return stock.RecordOutInput{
		ProductID: productID,
		Qty:       r.Qty,
		Customer:  r.Customer,
		Remarks:   r.Remarks,
		ActorID:   actorID,
	}, nil
}

// AdjustmentRequest represents a physical-count correction.
type AdjustmentRequest struct {
	ProductID  string  `json:"productId" binding:"required"`
	CountedQty int     `json:"countedQty" binding:"min=0"`
	Remarks    *string `json:"remarks,omitempty"`
}

// ToInput converts the request to the engine's input.
func (r *AdjustmentRequest) ToInput(actorID id.ID) (stock.RecordAdjustmentInput, error) {
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return stock.RecordAdjustmentInput{}, apperror.NewValidation("invalid product id").WithDetail("value", r.ProductID)
	}
	return stock.RecordAdjustmentInput{
		ProductID:  productID,
		CountedQty: r.CountedQty,
		Remarks:    r.Remarks,
		ActorID:    actorID,
	}, nil
}

// MovementResponse acknowledges a recorded mutation.
type MovementResponse struct {
	MovementID string `json:"movementId"`
}

// MovementListRequest contains ledger listing filters.
type MovementListRequest struct {
	PaginationRequest
	ProductID string     `form:"productId"`
	Type      string     `form:"type" binding:"omitempty,oneof=IN OUT ADJUST"`
	FromDate  *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"toDate" time_format:"2006-01-02"`
}

// ToFilter converts the request to a ledger filter. Both dates are
// inclusive on the screen; the repository applies a half-open range, so
// the end bound advances to the next midnight.
func (r *MovementListRequest) ToFilter() (stock.MovementFilter, error) {
	r.Defaults()
	filter := stock.MovementFilter{
		FromDate: r.FromDate,
		Limit:    r.PageSize,
		Offset:   r.Offset(),
	}
	if r.ToDate != nil {
		end := r.ToDate.AddDate(0, 0, 1)
		filter.ToDate = &end
	}
	if r.ProductID != "" {
		productID, err := id.Parse(r.ProductID)
		if err != nil {
			return filter, apperror.NewValidation("invalid product id").WithDetail("value", r.ProductID)
		}
		filter.ProductID = &productID
	}
	if r.Type != "" {
		movType := stock.MovementType(r.Type)
		filter.Type = &movType
	}
	return filter, nil
}
