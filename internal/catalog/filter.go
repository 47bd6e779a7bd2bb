package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/primecart/internal/domain"
)

// Sort orders a filtered product list.
type Sort string

const (
	// SortFeatured keeps catalog order (newest first).
	SortFeatured  Sort = "featured"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
)

// AllCategories disables the category filter.
const AllCategories = "All"

// FeaturedCount is how many products the home page shows.
const FeaturedCount = 4

// ParseSort accepts the sort names used by the shop page. Empty means featured.
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating:
		return Sort(s), nil
	}
	return "", fmt.Errorf("unknown sort %q (want featured, price-low, price-high or rating)", s)
}

// Filter narrows and orders the catalog.
//
// Zero values disable each criterion: an empty Query matches everything, an
// empty or "All" Category matches every category, and MaxPrice <= 0 means no
// upper bound.
type Filter struct {
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	Sort     Sort
}

// Apply returns the products matching f, ordered by f.Sort. The input is not
// modified. Sorting is stable, so ties keep catalog order.
func Apply(products []domain.Product, f Filter) []domain.Product {
	query := fold(strings.TrimSpace(f.Query))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
			continue
		}
		if p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		out = append(out, p.Clone())
	}

	switch f.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) })
	}
	return out
}

// Featured returns the first FeaturedCount products in catalog order.
func Featured(products []domain.Product) []domain.Product {
	n := min(len(products), FeaturedCount)
	return domain.CloneProducts(products[:n])
}

func matchesQuery(p domain.Product, folded string) bool {
	return strings.Contains(fold(p.Name), folded) ||
		strings.Contains(fold(p.Description), folded) ||
		strings.Contains(fold(p.Category), folded)
}

// fold normalizes s for case-insensitive matching. NFC first so composed and
// decomposed accents compare equal.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
