package utils

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/validation"
	"github.com/go-playground/validator/v10"
)

// ParseAndValidate decodes the body into dest and runs the validator on it.
// On failure the error response is already written.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate, messages validation.Messages) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		response.Error(w, err)
		return false
	}

	if err := validation.Struct(validate, dest, messages); err != nil {
		slog.Warn("Validation failed", slog.String("endpoint", r.URL.Path), slog.String("error", err.Error()))
		response.Error(w, err)
		return false
	}

	return true

}
