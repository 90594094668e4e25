package models

import "time"

// CartLine represents one pending sale line in the session cart.
// A cart holds at most one line per distinct name; lines whose quantity
// drops to zero or below are removed rather than retained.
type CartLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// SaleItem is a single line inside a committed sale.
type SaleItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// SaleRecord represents a finalized sale. Immutable once created.
type SaleRecord struct {
	ID          string     `json:"id"`
	Date        time.Time  `json:"date"`
	Items       []SaleItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

// ExpenseRecord represents money spent restocking the shop.
// Immutable once created, append-only.
type ExpenseRecord struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// View represents the screen the shopkeeper is currently looking at.
type View string

const (
	ViewCatalog   View = "catalog"
	ViewCart      View = "cart"
	ViewAssistant View = "assistant"
)
