package request

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	ErrPaymentBodyNotJSON   = errors.New("request body is not valid json")
	ErrEmptyPaymentEnvelope = errors.New("mp_payload cannot be empty")
)

// OrderPaymentRequest documents the wrapped form of the payment body. A bare
// Mercado Pago payment request is accepted too.
//
// transaction_amount is always replaced by the order total.
type OrderPaymentRequest struct {
	MPPayload json.RawMessage `json:"mp_payload" swaggertype:"object"`
}

// PaymentPayload extracts the Mercado Pago payload from a raw request body.
// An empty body yields an empty object.
func PaymentPayload(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(body) {
		return nil, ErrPaymentBodyNotJSON
	}

	var req OrderPaymentRequest
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if _, wrapped := envelope["mp_payload"]; wrapped {
			_ = json.Unmarshal(body, &req)
			inner := bytes.TrimSpace(req.MPPayload)
			if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
				return nil, ErrEmptyPaymentEnvelope
			}
			return inner, nil
		}
	}
	return json.RawMessage(body), nil
}
