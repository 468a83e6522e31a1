package response

import (
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase"
	"time"

	"github.com/shopspring/decimal"
)

type LineItemResponse struct {
	Kind            string          `json:"kind"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" swaggertype:"string"`
	Subtotal        decimal.Decimal `json:"subtotal" swaggertype:"string"`
	InventoryItemID string          `json:"inventory_item_id,omitempty"`
}

type ServiceOrderResponse struct {
	ID             string             `json:"id"`
	ClientID       string             `json:"client_id"`
	VehicleID      string             `json:"vehicle_id"`
	Status         string             `json:"status"`
	Items          []LineItemResponse `json:"items"`
	TotalValue     decimal.Decimal    `json:"total_value" swaggertype:"string"`
	Observations   string             `json:"observations,omitempty"`
	UserID         string             `json:"user_id,omitempty"`
	CommittedParts map[string]int     `json:"committed_parts"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// StockResultResponse is the outcome of one stock movement. Quantity is
// positive when stock was consumed and negative when it was returned.
type StockResultResponse struct {
	InventoryItemID string `json:"inventory_item_id"`
	Quantity        int    `json:"quantity"`
	OK              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
}

type OrderSaveResponse struct {
	Order        ServiceOrderResponse  `json:"order"`
	StockResults []StockResultResponse `json:"stock_results,omitempty"`
}

func FromServiceOrder(o entities.ServiceOrder) ServiceOrderResponse {
	items := make([]LineItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		d := it.Details()
		line := LineItemResponse{
			Kind:        string(it.Kind()),
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal(),
		}
		if p, ok := it.(entities.PartLine); ok {
			line.InventoryItemID = p.InventoryItemID
		}
		items = append(items, line)
	}

	committed := map[string]int(o.CommittedParts.Clone())
	return ServiceOrderResponse{
		ID:             o.ID,
		ClientID:       o.ClientID,
		VehicleID:      o.VehicleID,
		Status:         string(o.Status),
		Items:          items,
		TotalValue:     o.TotalValue,
		Observations:   o.Observations,
		UserID:         o.UserID,
		CommittedParts: committed,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func FromServiceOrders(orders []entities.ServiceOrder) []ServiceOrderResponse {
	out := make([]ServiceOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromServiceOrder(o))
	}
	return out
}

func FromOrderSaveResult(r usecase.OrderSaveResult) OrderSaveResponse {
	res := OrderSaveResponse{Order: FromServiceOrder(r.Order)}
	for _, sr := range r.StockResults {
		item := StockResultResponse{InventoryItemID: sr.InventoryItemID, Quantity: sr.Quantity, OK: sr.Succeeded()}
		if sr.Err != nil {
			item.Error = sr.Err.Error()
		}
		res.StockResults = append(res.StockResults, item)
	}
	return res
}
