package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
)

type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Reason  errors.Reason       `json:"reason,omitempty"`
	Details []string            `json:"details,omitempty"`
	Fields  []errors.FieldError `json:"fields,omitempty"`
}

// interface {} == any
func WriteJson(w http.ResponseWriter, statusCode int, data any) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data) //struct to json
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	response := APIResponse{
		Success: true,
		Data:    data,
	}

	WriteJson(w, statusCode, response)
}

func Error(w http.ResponseWriter, err error) {

	var statusCode int
	var errorResponse *ErrorResponse

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		errorResponse = &ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Reason:  appErr.Reason,
		}

		if appErr.Detail != "" {
			errorResponse.Details = []string{appErr.Detail}
		}

		if fields, ok := errors.Fields(appErr); ok {
			errorResponse.Fields = fields
		}

	} else {

		statusCode = http.StatusInternalServerError
		errorResponse = &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "An unexpected error occured",
		}

	}

	response := APIResponse{
		Success: false,
		Error:   errorResponse,
	}

	WriteJson(w, statusCode, response)
}

// Redirect tells the client to go to location instead of the requested page.
func Redirect(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)

	WriteJson(w, http.StatusSeeOther, APIResponse{
		Success: false,
		Data:    map[string]string{"redirect": location},
	})
}

// Loading is the placeholder rendered while an access decision is unknown.
func Loading(w http.ResponseWriter, retryAfterSeconds int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))

	WriteJson(w, http.StatusServiceUnavailable, map[string]bool{"loading": true})
}
