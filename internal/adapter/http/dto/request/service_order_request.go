package request

import (
	"gestao_oficina/internal/usecase"

	"github.com/shopspring/decimal"
)

// LineItemRequest is one order line. unit_price may be omitted for parts
// taken from inventory; the item's sale price is used instead.
type LineItemRequest struct {
	Kind            string           `json:"kind" binding:"required" example:"peca"`
	Description     string           `json:"description" example:"Filtro de óleo"`
	Quantity        int              `json:"quantity" binding:"required" example:"1"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"number" example:"49.90"`
	InventoryItemID string           `json:"inventory_item_id,omitempty"`
}

type ServiceOrderCreateRequest struct {
	ClientID     string            `json:"client_id" binding:"required"`
	VehicleID    string            `json:"vehicle_id" binding:"required"`
	Items        []LineItemRequest `json:"items" binding:"required"`
	Observations string            `json:"observations"`
	Status       string            `json:"status" example:"Orçamento"`
}

// ServiceOrderPatchRequest changes only the fields present in the body.
// Sending "items" replaces the whole list.
type ServiceOrderPatchRequest struct {
	ClientID     *string           `json:"client_id"`
	VehicleID    *string           `json:"vehicle_id"`
	Items        []LineItemRequest `json:"items"`
	Observations *string           `json:"observations"`
	Status       *string           `json:"status"`
}

type ServiceOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"Em andamento"`
}

func toLineInputs(items []LineItemRequest) []usecase.LineInput {
	if items == nil {
		return nil
	}
	out := make([]usecase.LineInput, 0, len(items))
	for _, it := range items {
		out = append(out, usecase.LineInput{
			Kind:            it.Kind,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			InventoryItemID: it.InventoryItemID,
		})
	}
	return out
}

func (r ServiceOrderCreateRequest) ToInput(userID string) usecase.OrderInput {
	return usecase.OrderInput{
		ClientID:     r.ClientID,
		VehicleID:    r.VehicleID,
		Items:        toLineInputs(r.Items),
		Observations: r.Observations,
		Status:       r.Status,
		UserID:       userID,
	}
}

func (r ServiceOrderPatchRequest) ToPatch() usecase.OrderPatch {
	return usecase.OrderPatch{
		ClientID:     r.ClientID,
		VehicleID:    r.VehicleID,
		Items:        toLineInputs(r.Items),
		Observations: r.Observations,
		Status:       r.Status,
	}
}
