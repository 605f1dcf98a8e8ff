package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a catalog category accepted by the admin console.
type Category string

var Categories = []Category{
	"business", "technology", "fiction", "horror", "adventure", "romance", "mystery",
	"thriller", "biography", "history", "science", "cookbook", "health", "travel",
	"children", "comics", "poetry", "self-help", "religious", "other",
}

type Book struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Trending    bool            `json:"trending"`
	CoverImage  string          `json:"coverImage"`
	OldPrice    decimal.Decimal `json:"oldPrice"`
	NewPrice    decimal.Decimal `json:"newPrice"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// CartItem copies the fields the cart needs out of a catalog entry.
func (b Book) CartItem() CartItem {
	return CartItem{
		ID:         b.ID,
		Title:      b.Title,
		Category:   b.Category,
		NewPrice:   b.NewPrice,
		CoverImage: b.CoverImage,
	}
}

type BookRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"required"`
	Category    Category        `json:"category" validate:"required,category"`
	Trending    bool            `json:"trending"`
	CoverImage  string          `json:"coverImage" validate:"required"`
	OldPrice    decimal.Decimal `json:"oldPrice" validate:"gte=0"`
	NewPrice    decimal.Decimal `json:"newPrice" validate:"gte=0"`
}
