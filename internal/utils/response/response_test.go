package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	return resp
}

func TestError(t *testing.T) {
	t.Run("Success - AppError With Fields", func(t *testing.T) {
		// Arrange
		rr := httptest.NewRecorder()
		err := appErrors.FieldValidationError(appErrors.ValidationErrors{{Field: "zipcode", Message: "Zipcode must be 6 digits"}})

		// Act
		response.Error(rr, err)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decode(t, rr)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Fields, 1)
		assert.Equal(t, "zipcode", resp.Error.Fields[0].Field)
	})

	t.Run("Success - Reason Is Exposed", func(t *testing.T) {
		rr := httptest.NewRecorder()

		response.Error(rr, appErrors.AuthenticationError(appErrors.ReasonWrongCredential, "Wrong password"))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, appErrors.ReasonWrongCredential, decode(t, rr).Error.Reason)
	})

	t.Run("Failure - Plain Error Is Internal", func(t *testing.T) {
		rr := httptest.NewRecorder()

		response.Error(rr, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, appErrors.ErrCodeInternal, decode(t, rr).Error.Code)
	})
}

func TestRedirectAndLoading(t *testing.T) {
	rr := httptest.NewRecorder()
	response.Redirect(rr, "/login")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	response.Loading(rr, 1)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"loading":true}`, rr.Body.String())
}
