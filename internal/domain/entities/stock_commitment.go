package entities

import "sort"

// StockCommitment maps inventory item id to the quantity an order holds.
type StockCommitment map[string]int

// StockDelta is a pending stock movement for one inventory item. A positive
// Quantity consumes stock, a negative one returns it to the shelf.
type StockDelta struct {
	InventoryItemID string
	Quantity        int
}

// DesiredCommitment sums the quantities of ledger-backed part lines.
func DesiredCommitment(items []LineItem) StockCommitment {
	out := StockCommitment{}
	for _, it := range items {
		p, ok := it.(PartLine)
		if !ok || !p.FromLedger() {
			continue
		}
		out[p.InventoryItemID] += p.Quantity
	}
	return out
}

// Clone returns an independent copy; a nil commitment clones to an empty one.
func (c StockCommitment) Clone() StockCommitment {
	out := make(StockCommitment, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// DeltaTo returns the movements needed to go from c to desired, sorted by
// inventory item id. Items whose quantity does not change are omitted.
func (c StockCommitment) DeltaTo(desired StockCommitment) []StockDelta {
	ids := make(map[string]struct{}, len(c)+len(desired))
	for id := range c {
		ids[id] = struct{}{}
	}
	for id := range desired {
		ids[id] = struct{}{}
	}

	deltas := make([]StockDelta, 0, len(ids))
	for id := range ids {
		if d := desired[id] - c[id]; d != 0 {
			deltas = append(deltas, StockDelta{InventoryItemID: id, Quantity: d})
		}
	}
	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].InventoryItemID < deltas[j].InventoryItemID
	})
	return deltas
}

// StockMovement moves one inventory item of an order from the committed
// quantity From to To. It is only valid while the order still records From.
type StockMovement struct {
	OrderID         string
	InventoryItemID string
	From            int
	To              int
}

// Quantity is the signed amount taken from the shelf.
func (m StockMovement) Quantity() int { return m.To - m.From }
