package interfaces

import (
	"context"
	"gestao_oficina/internal/domain/entities"
)

// IBillingPaymentRepository stores the charges made against service orders.
// GetByID returns a zero payment when the id is unknown.
type IBillingPaymentRepository interface {
	Create(ctx context.Context, p entities.BillingPayment) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	// ListByOrderID reads the order_id index; the order of the result is unspecified.
	ListByOrderID(ctx context.Context, orderID string) ([]entities.BillingPayment, error)
}
