package engine

import (
	"fmt"
	"time"

	"dukaan/internal/models"

	"github.com/google/uuid"
)

// Dispatch applies one action record to the snapshot and returns the next
// one. It is a pure reducer: the input state is never mutated, no error is
// ever returned, and the worst outcome of a malformed or unknown action is
// an unchanged snapshot.
func Dispatch(state State, action models.ActionRecord, now time.Time) State {
	switch action.Kind {
	case models.ActionUpdateInventory, models.ActionRestock:
		return applyInventoryUpdate(state, action.Items, now)
	case models.ActionRecordSale, models.ActionCompleteSale:
		return applySale(state, action.Items, now)
	case models.ActionAddToCart, models.ActionUpdateCart:
		return applyCartUpdate(state, action.Items, false)
	case models.ActionViewBill, models.ActionNavigateBill:
		return applyCartUpdate(state, action.Items, true)
	default:
		return state
	}
}

// applyInventoryUpdate runs every line through the ledger, creating items
// the resolver cannot match (except for subtractions, which are no-ops on
// unknown names). Added stock across all lines accumulates into a single
// cost figure, posted as at most one expense per action.
func applyInventoryUpdate(state State, lines []models.ActionLine, now time.Time) State {
	if len(lines) == 0 {
		return state
	}

	next := state.Clone()
	var cost float64
	touched := false

	for _, line := range lines {
		if line.Name == "" || line.Quantity < 0 {
			continue
		}
		if i := resolveIndex(line.Name, next.Inventory); i >= 0 {
			res := applyChange(&next.Inventory[i], line.Change(), line.Quantity, line.Price)
			cost += estimateCost(res.PriceUsed, res.QuantityDelta)
			touched = true
			continue
		}
		if line.Change() == models.ChangeSubtract {
			continue
		}
		item := newItemFromLine(line, uuid.New().String())
		next.Inventory = append([]models.InventoryItem{item}, next.Inventory...)
		cost += estimateCost(item.Price, item.Quantity)
		touched = true
	}

	if !touched {
		return state
	}
	if amount := roundCost(cost); amount > 0 {
		next.Expenses = append(next.Expenses, models.ExpenseRecord{
			ID:          uuid.New().String(),
			Description: "Stock purchase",
			Amount:      amount,
			Date:        now,
		})
	}
	return next
}

// applySale records a sale directly from the action's own lines. The cart
// is neither read nor cleared on this path; only Checkout consumes it.
func applySale(state State, lines []models.ActionLine, now time.Time) State {
	if len(lines) == 0 {
		return state
	}

	saleLines := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Name == "" || line.Quantity <= 0 {
			continue
		}
		price := 0.0
		if line.Price != nil && *line.Price > 0 {
			price = *line.Price
		}
		saleLines = append(saleLines, models.CartLine{Name: line.Name, Quantity: line.Quantity, Price: price})
	}
	if len(saleLines) == 0 {
		return state
	}

	next := state.Clone()
	sale, ok := commitLines(next.Inventory, saleLines, now)
	if !ok {
		return state
	}
	next.Sales = append(next.Sales, sale)
	return next
}

func applyCartUpdate(state State, lines []models.ActionLine, showBill bool) State {
	next := state.Clone()
	next.Cart = mergeCart(next.Cart, lines, next.Inventory)
	if showBill {
		next.ActiveView = models.ViewCart
	}
	return next
}

// AddToCart is the direct-tap path onto the cart: it merges the named
// product with quantity 1 (or the given quantity) using the same semantics
// as ADD_TO_CART actions.
func (s State) AddToCart(name string, quantity int) State {
	if quantity <= 0 {
		quantity = 1
	}
	return applyCartUpdate(s, []models.ActionLine{{Name: name, Quantity: quantity}}, false)
}

// RemoveFromCart drops a cart line entirely.
func (s State) RemoveFromCart(name string) State {
	return applyCartUpdate(s, []models.ActionLine{{
		Name:       name,
		Quantity:   0,
		ChangeType: models.ChangeSet,
	}}, false)
}

// QuickRestock is the one-tap restock shortcut: a fixed number of units is
// added to the identified item and the implied cost is posted as a single
// expense. Unknown ids leave the state unchanged.
func (s State) QuickRestock(itemID string, now time.Time) State {
	for i, item := range s.Inventory {
		if item.ID != itemID {
			continue
		}
		next := s.Clone()
		next.Inventory[i].Quantity += quickRestockUnits
		if amount := roundCost(estimateCost(item.Price, quickRestockUnits)); amount > 0 {
			next.Expenses = append(next.Expenses, models.ExpenseRecord{
				ID:          uuid.New().String(),
				Description: fmt.Sprintf("Restocked %s", item.Name),
				Amount:      amount,
				Date:        now,
			})
		}
		return next
	}
	return s
}
