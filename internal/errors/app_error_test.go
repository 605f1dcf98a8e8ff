package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("Success - Wraps Underlying Error", func(t *testing.T) {
		// Arrange
		cause := errors.New("connection reset")

		// Act
		err := appErrors.SubmissionError("Order Failed").WithError(cause).WithDetail("retry later")

		// Assert
		assert.Equal(t, "Order Failed", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, http.StatusBadGateway, err.StatusCode)
		assert.Equal(t, "retry later", err.Detail)
	})

	t.Run("Success - IsAppError Through fmt Wrapping", func(t *testing.T) {
		// Arrange
		wrapped := fmt.Errorf("checkout: %w", appErrors.AuthenticationError(appErrors.ReasonWrongCredential, "Wrong password"))

		// Act
		appErr, ok := appErrors.IsAppError(wrapped)

		// Assert
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeAuthentication, appErr.Code)
		assert.Equal(t, appErrors.ReasonWrongCredential, appErr.Reason)
		assert.True(t, appErrors.HasCode(wrapped, appErrors.ErrCodeAuthentication))
		assert.False(t, appErrors.HasCode(wrapped, appErrors.ErrCodeSubmission))
	})

	t.Run("Success - Field Validation Errors", func(t *testing.T) {
		// Arrange
		fields := appErrors.ValidationErrors{
			{Field: "name", Message: "Full Name is required"},
			{Field: "zipcode", Message: "Zipcode must be 6 digits"},
		}

		// Act
		err := appErrors.FieldValidationError(fields)
		got, ok := appErrors.Fields(err)

		// Assert
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, err.Code)
		assert.Len(t, got, 2)
		msg, found := got.Field("zipcode")
		assert.True(t, found)
		assert.Equal(t, "Zipcode must be 6 digits", msg)
		_, found = got.Field("phone")
		assert.False(t, found)
		assert.Contains(t, got.Error(), "name: Full Name is required")
	})
}
