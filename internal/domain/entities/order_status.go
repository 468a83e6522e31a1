package entities

import "strings"

// OrderStatus is the lifecycle state of a service order (ordem de serviço).
//
// Quote → Awaiting approval → In progress → Completed, with Cancelled reachable
// from any non-terminal state. Completed and Cancelled are terminal.
type OrderStatus string

const (
	OrderStatusOrcamento           OrderStatus = "Orçamento"
	OrderStatusAguardandoAprovacao OrderStatus = "Aguardando aprovação"
	OrderStatusEmAndamento         OrderStatus = "Em andamento"
	OrderStatusConcluido           OrderStatus = "Concluído"
	OrderStatusCancelado           OrderStatus = "Cancelado"
)

var orderStatuses = []OrderStatus{
	OrderStatusOrcamento,
	OrderStatusAguardandoAprovacao,
	OrderStatusEmAndamento,
	OrderStatusConcluido,
	OrderStatusCancelado,
}

// OrderStatuses lists every recognized status in lifecycle order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// ParseOrderStatus matches a status by exact value, ignoring surrounding space
// and letter case. Empty input is rejected.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	raw = strings.TrimSpace(raw)
	for _, s := range orderStatuses {
		if strings.EqualFold(string(s), raw) {
			return s, nil
		}
	}
	return "", ErrInvalidOrderStatus
}

func (s OrderStatus) IsValid() bool {
	for _, known := range orderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusConcluido || s == OrderStatusCancelado
}

// ImpactsStock reports whether moving an order into s consumes its parts.
// Only the quote and cancelled states are exempt.
func (s OrderStatus) ImpactsStock() bool {
	return s.IsValid() && s != OrderStatusOrcamento && s != OrderStatusCancelado
}

// IsPending is true for states that still represent potential revenue.
func (s OrderStatus) IsPending() bool {
	switch s {
	case OrderStatusOrcamento, OrderStatusAguardandoAprovacao, OrderStatusEmAndamento:
		return true
	}
	return false
}

// CanTransitionTo applies the terminal-state rule. Leaving a terminal state
// requires an explicit reopen; re-applying the current status is a no-op.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !target.IsValid() {
		return false
	}
	if s == target {
		return true
	}
	return !s.IsTerminal()
}
