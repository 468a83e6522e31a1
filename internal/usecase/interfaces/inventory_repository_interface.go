package interfaces

import (
	"context"
	"errors"
	"gestao_oficina/internal/domain/entities"
)

// ErrInsufficientStock is returned by DecrementStock when the floor check
// rejects the movement.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrCommitmentChanged is returned by MoveForOrder when the order no longer
// records the committed quantity the movement was computed from.
var ErrCommitmentChanged = errors.New("order stock commitment changed")

// IInventoryRepository abstracts persistence for InventoryItem.
//
// Stock is never written by Update. DecrementStock and IncrementStock are
// single relative updates evaluated by the store, so concurrent orders
// consuming the same item cannot lose each other's movements. A missing item
// yields a zero InventoryItem and a nil error.
type IInventoryRepository interface {
	Create(ctx context.Context, item entities.InventoryItem) (entities.InventoryItem, error)
	GetByID(ctx context.Context, id string) (entities.InventoryItem, error)
	List(ctx context.Context) ([]entities.InventoryItem, error)
	Update(ctx context.Context, item entities.InventoryItem) (entities.InventoryItem, error)
	Delete(ctx context.Context, id string) (entities.InventoryItem, error)
	DecrementStock(ctx context.Context, id string, quantity int, allowNegative bool) (entities.InventoryItem, error)
	IncrementStock(ctx context.Context, id string, quantity int) (entities.InventoryItem, error)
	// MoveForOrder applies m to current_stock and records m.To as the order's
	// committed quantity in one transaction.
	MoveForOrder(ctx context.Context, m entities.StockMovement, allowNegative bool) (entities.InventoryItem, error)
}
