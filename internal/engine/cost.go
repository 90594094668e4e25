package engine

import "math"

// costBasisRatio is the assumed acquisition cost as a share of the selling
// price. The shop records no purchase invoices, so restock expenses are
// estimated from what the stock sells for.
const costBasisRatio = 0.8

// quickRestockUnits is the fixed quantity added by the one-tap restock
// shortcut.
const quickRestockUnits = 10

// estimateCost derives the implied acquisition cost of added stock.
func estimateCost(priceUsed float64, quantityDelta int) float64 {
	if quantityDelta <= 0 || priceUsed <= 0 {
		return 0
	}
	return priceUsed * costBasisRatio * float64(quantityDelta)
}

// roundCost rounds an aggregated cost to the nearest whole currency unit
// before it is posted as an expense.
func roundCost(cost float64) float64 {
	return math.Round(cost)
}
