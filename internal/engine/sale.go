package engine

import (
	"time"

	"dukaan/internal/models"

	"github.com/google/uuid"
)

// commitLines turns a finalized list of lines into a sale against the given
// inventory. Each line is resolved against the catalog: matched items have
// their quantity decremented (floored at zero) and contribute their live
// inventory price to the total, overriding whatever price the line carried.
// Unresolved names skip the decrement but still count toward the total at
// the line's own price. The inventory slice is modified in place; callers
// pass a cloned snapshot.
func commitLines(inventory []models.InventoryItem, lines []models.CartLine, now time.Time) (models.SaleRecord, bool) {
	var items []models.SaleItem
	var total float64

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		price := line.Price
		if i := resolveIndex(line.Name, inventory); i >= 0 {
			price = inventory[i].Price
			inventory[i].Quantity -= line.Quantity
			if inventory[i].Quantity < 0 {
				inventory[i].Quantity = 0
			}
		}
		items = append(items, models.SaleItem{Name: line.Name, Quantity: line.Quantity, Price: price})
		total += price * float64(line.Quantity)
	}

	if len(items) == 0 {
		return models.SaleRecord{}, false
	}

	return models.SaleRecord{
		ID:          uuid.New().String(),
		Date:        now,
		Items:       items,
		TotalAmount: total,
	}, true
}

// Checkout commits the cart as a single sale: inventory is decremented, one
// SaleRecord is appended and the cart is cleared, all within the same
// snapshot transition so the cart is never left partially consumed. An
// empty cart leaves the state unchanged.
func (s State) Checkout(now time.Time) State {
	if len(s.Cart) == 0 {
		return s
	}
	next := s.Clone()
	sale, ok := commitLines(next.Inventory, next.Cart, now)
	if !ok {
		return s
	}
	next.Sales = append(next.Sales, sale)
	next.Cart = nil
	next.ActiveView = models.ViewCatalog
	return next
}
