package cart

import (
	"slices"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/shopspring/decimal"
)

// Add returns items with item appended unless an entry with the same ID is
// already present. The input slice is never modified.
func Add(items []models.CartItem, item models.CartItem) ([]models.CartItem, models.AddResult) {
	if item.ID == "" || item.NewPrice.IsNegative() {
		return items, models.ItemRejected
	}

	if indexOf(items, item.ID) >= 0 {
		return items, models.ItemAlreadyInCart
	}

	next := make([]models.CartItem, len(items), len(items)+1)
	copy(next, items)

	return append(next, item), models.ItemAdded
}

// Remove returns items without the entry identified by id.
func Remove(items []models.CartItem, id string) ([]models.CartItem, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return items, false
	}

	if len(items) == 1 {
		return nil, true
	}

	return slices.Delete(slices.Clone(items), i, i+1), true
}

// Total sums unit prices, rounded to cents.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.NewPrice)
	}

	return total.Round(2)
}

func indexOf(items []models.CartItem, id string) int {
	return slices.IndexFunc(items, func(it models.CartItem) bool { return it.ID == id })
}
