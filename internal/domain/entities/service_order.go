package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOrder is a work order (ordem de serviço) for one client vehicle.
//
// Storage model (DynamoDB):
//   - PK: id
//   - items are embedded as a list; they are not a separate table
//
// TotalValue is derived from Items on every save and is never accepted from
// callers. CommittedParts records, per inventory item, how many units this
// order has already taken from stock.
type ServiceOrder struct {
	ID             string
	ClientID       string
	VehicleID      string
	Status         OrderStatus
	Items          []LineItem
	TotalValue     decimal.Decimal
	Observations   string
	UserID         string
	CommittedParts StockCommitment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RecomputeTotal refreshes TotalValue from the current items.
func (o *ServiceOrder) RecomputeTotal() {
	o.TotalValue = SumLines(o.Items)
}

// PartLines returns the part lines of the order in item order.
func (o ServiceOrder) PartLines() []PartLine {
	parts := make([]PartLine, 0, len(o.Items))
	for _, it := range o.Items {
		if p, ok := it.(PartLine); ok {
			parts = append(parts, p)
		}
	}
	return parts
}
