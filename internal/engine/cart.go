package engine

import (
	"strings"

	"dukaan/internal/models"
)

// mergeCart folds incoming lines into the cart. Prices are resolved from the
// current inventory before merging, falling back to the line's own price,
// else zero. Lines addressing the same name merge additively; subtract and
// set adjust the existing quantity instead. Any line at or below zero
// quantity is removed outright. A merged line's price is fixed on first
// merge and never revised by later merges; at sale time the live inventory
// price wins anyway (see commitLines).
func mergeCart(cart []models.CartLine, lines []models.ActionLine, catalog []models.InventoryItem) []models.CartLine {
	out := make([]models.CartLine, len(cart))
	copy(out, cart)

	for _, line := range lines {
		if strings.TrimSpace(line.Name) == "" {
			continue
		}

		name := line.Name
		price := 0.0
		if item, ok := Resolve(line.Name, catalog); ok {
			name = item.Name
			price = item.Price
		} else if line.Price != nil && *line.Price > 0 {
			price = *line.Price
		}

		idx := cartIndex(out, name)
		switch line.Change() {
		case models.ChangeSubtract:
			if idx >= 0 {
				out[idx].Quantity -= line.Quantity
			}
		case models.ChangeSet:
			if idx >= 0 {
				out[idx].Quantity = line.Quantity
			} else if line.Quantity > 0 {
				out = append(out, models.CartLine{Name: name, Quantity: line.Quantity, Price: price})
			}
		default: // add
			if line.Quantity <= 0 {
				continue
			}
			if idx >= 0 {
				out[idx].Quantity += line.Quantity
			} else {
				out = append(out, models.CartLine{Name: name, Quantity: line.Quantity, Price: price})
			}
		}
	}

	return dropEmptyLines(out)
}

func cartIndex(cart []models.CartLine, name string) int {
	for i, line := range cart {
		if strings.EqualFold(line.Name, name) {
			return i
		}
	}
	return -1
}

func dropEmptyLines(cart []models.CartLine) []models.CartLine {
	kept := cart[:0]
	for _, line := range cart {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
