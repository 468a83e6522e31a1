package response

import (
	"gestao_oficina/internal/domain/entities"
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CurrentStock int             `json:"current_stock"`
	MinimumStock int             `json:"minimum_stock"`
	CostPrice    decimal.Decimal `json:"cost_price" swaggertype:"string"`
	SalePrice    decimal.Decimal `json:"sale_price" swaggertype:"string"`
	CategoryID   string          `json:"category_id,omitempty"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	StockLevel   string          `json:"stock_level" example:"ok"`
	IsLowStock   bool            `json:"is_low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func FromInventoryItem(i entities.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:           i.ID,
		Name:         i.Name,
		CurrentStock: i.CurrentStock,
		MinimumStock: i.MinimumStock,
		CostPrice:    i.CostPrice,
		SalePrice:    i.SalePrice,
		CategoryID:   i.CategoryID,
		SupplierID:   i.SupplierID,
		StockLevel:   string(i.StockLevel()),
		IsLowStock:   i.IsLowStock(),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func FromInventoryItems(items []entities.InventoryItem) []InventoryItemResponse {
	out := make([]InventoryItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, FromInventoryItem(i))
	}
	return out
}
