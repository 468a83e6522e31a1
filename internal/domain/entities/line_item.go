package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

type LineKind string

const (
	LineKindServico LineKind = "servico"
	LineKindPeca    LineKind = "peca"
)

// ParseLineKind accepts the persisted kinds plus the labels used by the
// original front-end ("Serviço"/"Peça").
func ParseLineKind(raw string) (LineKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "servico", "serviço", "service":
		return LineKindServico, nil
	case "peca", "peça", "part":
		return LineKindPeca, nil
	}
	return "", ErrInvalidLineKind
}

// LineDetails holds the fields common to every order line. UnitPrice is a
// snapshot taken when the line was added; it never follows later price edits.
type LineDetails struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (d LineDetails) Subtotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

func (d LineDetails) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyLineDesc
	}
	if d.Quantity < 1 {
		return ErrInvalidLineQuantity
	}
	if d.UnitPrice.IsNegative() {
		return ErrInvalidLinePrice
	}
	return nil
}

// LineItem is either a ServiceLine or a PartLine. The interface is sealed so
// only PartLine can carry an inventory reference.
type LineItem interface {
	Kind() LineKind
	Details() LineDetails
	isLineItem()
}

type ServiceLine struct {
	LineDetails
}

func (ServiceLine) Kind() LineKind { return LineKindServico }
func (l ServiceLine) Details() LineDetails { return l.LineDetails }
func (ServiceLine) isLineItem() {}

type PartLine struct {
	LineDetails
	// InventoryItemID is empty for parts bought outside the ledger.
	InventoryItemID string
}

func (PartLine) Kind() LineKind { return LineKindPeca }
func (l PartLine) Details() LineDetails { return l.LineDetails }
func (PartLine) isLineItem() {}

// FromLedger reports whether consuming this line must move stock.
func (l PartLine) FromLedger() bool {
	return strings.TrimSpace(l.InventoryItemID) != ""
}

// SumLines returns Σ quantity × unit price.
func SumLines(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Details().Subtotal())
	}
	return total
}
