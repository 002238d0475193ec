// Package marketplace holds the pure listing-filter logic shared by the
// marketplace handlers.
package marketplace

import (
	"strings"

	"krishi-vaidya/internal/models"
)

// Filter describes optional listing criteria. Zero values (and nil price
// bounds) mean "no constraint"; Category "All" is treated the same as empty.
type Filter struct {
	Search   string
	Category string
	Location string
	MinPrice *int
	MaxPrice *int
}

// Apply returns the listings satisfying every provided criterion, preserving
// the input order. A single linear scan with short-circuit predicates.
func Apply(products []*models.Product, f Filter) []*models.Product {
	search := strings.ToLower(f.Search)
	location := strings.ToLower(f.Location)
	filterCategory := f.Category != "" && f.Category != "All"

	matched := []*models.Product{}
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if filterCategory && p.Category != f.Category {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(p.Location), location) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}
