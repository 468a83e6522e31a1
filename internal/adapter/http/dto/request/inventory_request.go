package request

import (
	"gestao_oficina/internal/usecase"

	"github.com/shopspring/decimal"
)

// InventoryItemRequest creates or edits an item. current_stock is only read on
// creation; edits never overwrite stock.
type InventoryItemRequest struct {
	Name         string          `json:"name" binding:"required" example:"Pastilha de freio"`
	CurrentStock int             `json:"current_stock" example:"10"`
	MinimumStock int             `json:"minimum_stock" example:"2"`
	CostPrice    decimal.Decimal `json:"cost_price" swaggertype:"number" example:"80.00"`
	SalePrice    decimal.Decimal `json:"sale_price" swaggertype:"number" example:"120.00"`
	CategoryID   string          `json:"category_id"`
	SupplierID   string          `json:"supplier_id"`
}

func (r InventoryItemRequest) ToInput(userID string) usecase.InventoryInput {
	return usecase.InventoryInput{
		Name:         r.Name,
		InitialStock: r.CurrentStock,
		MinimumStock: r.MinimumStock,
		CostPrice:    r.CostPrice,
		SalePrice:    r.SalePrice,
		CategoryID:   r.CategoryID,
		SupplierID:   r.SupplierID,
		UserID:       userID,
	}
}

// StockAdjustRequest moves stock by a signed amount (positive adds).
type StockAdjustRequest struct {
	Delta int `json:"delta" binding:"required" example:"5"`
}
