package interfaces

import (
	"context"
	"gestao_oficina/internal/domain/entities"
	"time"
)

// IServiceOrderRepository abstracts persistence for ServiceOrder.
//
// Lookups and conditional writes return a zero ServiceOrder (empty ID) when
// the order does not exist; errors are reserved for store failures.
type IServiceOrderRepository interface {
	Create(ctx context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error)
	GetByID(ctx context.Context, id string) (entities.ServiceOrder, error)
	List(ctx context.Context) ([]entities.ServiceOrder, error)
	ListByCreatedAtRange(ctx context.Context, from, to time.Time) ([]entities.ServiceOrder, error)
	// Update replaces the stored order except committed_parts, which only
	// IInventoryRepository.MoveForOrder writes.
	Update(ctx context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error)
	Delete(ctx context.Context, id string) (entities.ServiceOrder, error)
}
