// Package engine implements the action reconciliation core: a pure reducer
// that applies typed action records and direct shop operations to the
// {inventory, cart, sales, expenses, active view} snapshot.
package engine

import (
	"dukaan/internal/models"

	"github.com/google/uuid"
)

// State is one immutable snapshot of the shop. Inventory keeps insertion
// order with the most recently added item first; the resolver's first-match
// rule depends on that ordering.
type State struct {
	Inventory  []models.InventoryItem `json:"inventory"`
	Cart       []models.CartLine      `json:"cart"`
	Sales      []models.SaleRecord    `json:"sales"`
	Expenses   []models.ExpenseRecord `json:"expenses"`
	ActiveView models.View            `json:"activeView"`
}

// NewState returns an empty snapshot showing the catalog view.
func NewState() State {
	return State{ActiveView: models.ViewCatalog}
}

// Clone deep-copies the snapshot so callers can never alias live state.
func (s State) Clone() State {
	out := State{ActiveView: s.ActiveView}
	if s.Inventory != nil {
		out.Inventory = make([]models.InventoryItem, len(s.Inventory))
		copy(out.Inventory, s.Inventory)
	}
	if s.Cart != nil {
		out.Cart = make([]models.CartLine, len(s.Cart))
		copy(out.Cart, s.Cart)
	}
	if s.Sales != nil {
		out.Sales = make([]models.SaleRecord, len(s.Sales))
		for i, sale := range s.Sales {
			items := make([]models.SaleItem, len(sale.Items))
			copy(items, sale.Items)
			sale.Items = items
			out.Sales[i] = sale
		}
	}
	if s.Expenses != nil {
		out.Expenses = make([]models.ExpenseRecord, len(s.Expenses))
		copy(out.Expenses, s.Expenses)
	}
	return out
}

// AddProduct prepends a new catalog entry and returns the next snapshot.
func (s State) AddProduct(item models.InventoryItem) State {
	if item.Name == "" {
		return s
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	if item.Price < 0 {
		item.Price = 0
	}
	next := s.Clone()
	next.Inventory = append([]models.InventoryItem{item}, next.Inventory...)
	return next
}
