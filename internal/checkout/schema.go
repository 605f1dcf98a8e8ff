package checkout

import "github.com/aaravmahajanofficial/bookstore-storefront/internal/validation"

var shippingMessages = validation.Messages{
	"name.required":      "Full Name is required",
	"name.alphaspace":    "Invalid name",
	"name.min":           "Name must be at least 2 characters long",
	"name.max":           "Name must be less than 50 characters",
	"phone.required":     "Phone Number is required",
	"phone.phone":        "Invalid phone number",
	"phone.digitsmin":    "Phone number must be at least 10 digits long",
	"phone.digitsmax":    "Phone number must be at most 15 digits long",
	"address.required":   "Street Address is required",
	"address.street":     "Invalid address",
	"address.min":        "Address must be at least 5 characters long",
	"address.max":        "Address must be less than 100 characters",
	"city.required":      "City is required",
	"city.alphaspace":    "Invalid city name",
	"city.min":           "City must be at least 2 characters long",
	"city.max":           "City must be less than 50 characters",
	"state.required":     "State/Province is required",
	"state.alphaspace":   "Invalid state name",
	"state.min":          "State must be at least 2 characters long",
	"state.max":          "State must be less than 50 characters",
	"country.required":   "Country is required",
	"country.alphaspace": "Invalid country name",
	"country.min":        "Country must be at least 2 characters long",
	"country.max":        "Country must be less than 50 characters",
	"zipcode.required":   "Zipcode is required",
	"zipcode.digits":     "Invalid Zipcode",
	"zipcode.len":        "Zipcode must be 6 digits",
}
