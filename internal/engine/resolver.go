package engine

import (
	"strings"

	"dukaan/internal/models"
)

// Resolve maps a free-text product name to a catalog entry. The match is
// case-insensitive and bidirectional: the query may be a substring of the
// catalog name ("milk" -> "Amul Milk") or the catalog name a substring of
// the query ("a packet of maggi noodles please" -> "Maggi Noodles"). The
// first match in catalog order wins; when several names share a substring
// the most recently added item is picked, which is an accepted imprecision
// of the matching heuristic, not something callers should compensate for.
func Resolve(query string, catalog []models.InventoryItem) (models.InventoryItem, bool) {
	i := resolveIndex(query, catalog)
	if i < 0 {
		return models.InventoryItem{}, false
	}
	return catalog[i], true
}

func resolveIndex(query string, catalog []models.InventoryItem) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return -1
	}
	for i, item := range catalog {
		name := strings.ToLower(item.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, q) || strings.Contains(q, name) {
			return i
		}
	}
	return -1
}
