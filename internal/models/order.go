package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// ShippingOrder is the create-order payload. It is built once per submission
// and never mutated afterwards.
type ShippingOrder struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Address    Address  `json:"address"`
	Phone      string   `json:"phone"`
	ProductIDs []string `json:"productIds"`
	TotalPrice string   `json:"totalPrice"`
}

// ShippingForm is the user-editable part of checkout. Email is not here: it
// always comes from the signed-in session.
type ShippingForm struct {
	Name        string `json:"name" validate:"required,alphaspace,min=2,max=50"`
	Phone       string `json:"phone" validate:"required,phone,digitsmin=10,digitsmax=15"`
	Address     string `json:"address" validate:"required,street,min=5,max=100"`
	City        string `json:"city" validate:"required,alphaspace,min=2,max=50"`
	State       string `json:"state" validate:"required,alphaspace,min=2,max=50"`
	Country     string `json:"country" validate:"required,alphaspace,min=2,max=50"`
	Zipcode     string `json:"zipcode" validate:"required,digits,len=6"`
	AcceptTerms bool   `json:"acceptTerms"`
}

type Order struct {
	ID         string          `json:"_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Address    Address         `json:"address"`
	Phone      json.Number     `json:"phone"`
	ProductIDs []string        `json:"productIds"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// CheckoutView is what the checkout page shows before submission.
type CheckoutView struct {
	Email  string         `json:"email"`
	Cart   CartView       `json:"cart"`
	Status CheckoutStatus `json:"status"`
}
