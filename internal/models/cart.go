package models

import "github.com/shopspring/decimal"

type CartItem struct {
	ID         string          `json:"_id" validate:"required"`
	Title      string          `json:"title"`
	Category   Category        `json:"category"`
	NewPrice   decimal.Decimal `json:"newPrice" validate:"gte=0"`
	CoverImage string          `json:"coverImage"`
}

// AddResult tells the caller whether an add inserted a new line.
type AddResult int

const (
	ItemAdded AddResult = iota
	ItemAlreadyInCart
	ItemRejected
)

func (r AddResult) String() string {
	switch r {
	case ItemAlreadyInCart:
		return "duplicate"
	case ItemRejected:
		return "rejected"
	default:
		return "added"
	}
}

type CartView struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Total string     `json:"total"`
}
