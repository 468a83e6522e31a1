package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPendente PaymentStatus = "pendente"
	PaymentStatusAprovado PaymentStatus = "aprovado"
	PaymentStatusNegado   PaymentStatus = "negado"
)

// PaymentStatusFromProvider maps Mercado Pago statuses onto ours.
func PaymentStatusFromProvider(providerStatus string) PaymentStatus {
	switch providerStatus {
	case "approved", "authorized":
		return PaymentStatusAprovado
	case "rejected", "cancelled", "refunded", "charged_back":
		return PaymentStatusNegado
	default:
		return PaymentStatusPendente
	}
}

// BillingPayment is a charge for a completed service order.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (order_id-index): order_id
//
// MPPayloadRaw keeps the provider response as received; MPPayload is the
// parsed form kept for querying.
type BillingPayment struct {
	ID      string
	OrderID string
	Date    time.Time
	Status  PaymentStatus
	Amount  decimal.Decimal

	MPPayloadRaw json.RawMessage
	MPPayload    map[string]interface{}
}
