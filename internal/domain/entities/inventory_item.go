package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel is the traffic-light label shown next to an item.
type StockLevel string

const (
	StockLevelOK      StockLevel = "ok"
	StockLevelAtencao StockLevel = "atencao"
	StockLevelBaixo   StockLevel = "baixo"
)

var attentionFactor = decimal.RequireFromString("1.2")

// InventoryItem is a part or material kept in stock.
//
// CurrentStock is only changed through signed stock movements; editing an
// item never overwrites it.
type InventoryItem struct {
	ID           string
	Name         string
	CurrentStock int
	MinimumStock int
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	CategoryID   string
	SupplierID   string
	UserID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock is true when the item is at or below its minimum.
func (i InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}

func (i InventoryItem) StockLevel() StockLevel {
	current := decimal.NewFromInt(int64(i.CurrentStock))
	minimum := decimal.NewFromInt(int64(i.MinimumStock))
	switch {
	case current.LessThan(minimum):
		return StockLevelBaixo
	case current.LessThanOrEqual(minimum.Mul(attentionFactor)):
		return StockLevelAtencao
	default:
		return StockLevelOK
	}
}

func (i InventoryItem) ValueAtCost() decimal.Decimal {
	return i.CostPrice.Mul(decimal.NewFromInt(int64(i.CurrentStock)))
}

func (i InventoryItem) ValueAtSale() decimal.Decimal {
	return i.SalePrice.Mul(decimal.NewFromInt(int64(i.CurrentStock)))
}
