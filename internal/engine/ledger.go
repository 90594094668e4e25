package engine

import "dukaan/internal/models"

// ChangeResult reports how a single line changed an inventory entry.
// QuantityDelta counts only added stock: it feeds the cost estimator, so
// subtractions contribute zero and a set contributes only its increase.
type ChangeResult struct {
	NewQuantity   int
	QuantityDelta int
	PriceUsed     float64
}

// applyChange mutates item's quantity according to the change type and
// returns the result used for expense costing. When the line carries a
// price, the item's selling price is updated to it; the price in effect
// after the change is the cost basis.
func applyChange(item *models.InventoryItem, change models.ChangeType, qty int, price *float64) ChangeResult {
	if price != nil && *price >= 0 {
		item.Price = *price
	}

	switch change {
	case models.ChangeSubtract:
		item.Quantity -= qty
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		return ChangeResult{NewQuantity: item.Quantity, PriceUsed: item.Price}
	case models.ChangeSet:
		delta := qty - item.Quantity
		if delta < 0 {
			delta = 0
		}
		item.Quantity = qty
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		return ChangeResult{NewQuantity: item.Quantity, QuantityDelta: delta, PriceUsed: item.Price}
	default: // add
		item.Quantity += qty
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		return ChangeResult{NewQuantity: item.Quantity, QuantityDelta: qty, PriceUsed: item.Price}
	}
}

// newItemFromLine builds the inventory entry created when a non-subtract
// change references a name the resolver cannot match. The price falls back
// to a zero placeholder until the shopkeeper sets one.
func newItemFromLine(line models.ActionLine, id string) models.InventoryItem {
	item := models.InventoryItem{
		ID:       id,
		Name:     line.Name,
		Quantity: line.Quantity,
		Unit:     string(models.UnitPiece),
	}
	if line.Price != nil && *line.Price >= 0 {
		item.Price = *line.Price
	}
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	return item
}
