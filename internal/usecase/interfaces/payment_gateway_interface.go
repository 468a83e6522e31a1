package interfaces

import (
	"context"
	"encoding/json"
)

// IPaymentGateway sends one charge to the payment provider. The request
// already carries the order total; the raw provider response is kept on the
// payment record.
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error)
}
