package utils_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONBody(t *testing.T) {
	t.Run("Success - Decodes Body", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"reader@example.com","password":"secret123"}`))
		var dest models.LoginRequest

		// Act
		err := utils.DecodeJSONBody(req, &dest)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", dest.Email)
	})

	t.Run("Failure - Empty Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", http.NoBody)

		err := utils.DecodeJSONBody(req, &models.LoginRequest{})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})

	t.Run("Failure - Malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":`))

		err := utils.DecodeJSONBody(req, &models.LoginRequest{})

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})
}

func TestParseAndValidate(t *testing.T) {
	t.Run("Failure - Writes Validation Error", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodPost, "/adminLogin", strings.NewReader(`{"username":""}`))
		recorder := httptest.NewRecorder()
		var dest models.AdminLoginRequest

		// Act
		ok := utils.ParseAndValidate(req, recorder, &dest, validation.New(), nil)

		// Assert
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"VALIDATION_ERROR"`)
	})

	t.Run("Success - Valid Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/adminLogin", strings.NewReader(`{"username":"admin","password":"pw"}`))
		recorder := httptest.NewRecorder()
		var dest models.AdminLoginRequest

		ok := utils.ParseAndValidate(req, recorder, &dest, validation.New(), nil)

		assert.True(t, ok)
		assert.Equal(t, "admin", dest.Username)
	})
}
