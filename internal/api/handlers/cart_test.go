package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/cart"
	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pageOf[T any] struct {
	View          T                     `json:"view"`
	Location      string                `json:"location"`
	Notifications []models.Notification `json:"notifications"`
}

type addView struct {
	Result string          `json:"result"`
	Cart   models.CartView `json:"cart"`
}

func setupCartTest() (*cart.Store, *mockBooks, http.Handler) {
	feed := newFeed()
	store := cart.NewStore(cart.WithNotifier(feed))
	books := new(mockBooks)
	h := handlers.NewCartHandler(store, books, feed)

	r := chi.NewRouter()
	r.Get("/cart", h.GetCart())
	r.Post("/cart/items", h.AddItem())
	r.Delete("/cart/items/{id}", h.RemoveItem())
	r.Delete("/cart", h.ClearCart())

	return store, books, r
}

func TestCartHandler(t *testing.T) {
	t.Run("Success - Add Full Item", func(t *testing.T) {
		// Arrange
		store, books, router := setupCartTest()
		body := `{"_id":"b1","title":"Dune","newPrice":"9.99"}`
		req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
		var page pageOf[addView]
		resp := decodePage(t, recorder, &page)
		assert.True(t, resp.Success)
		assert.Equal(t, "added", page.View.Result)
		assert.Equal(t, "9.99", page.View.Cart.Total)
		require.Len(t, page.Notifications, 1)
		assert.Equal(t, "Item added to cart", page.Notifications[0].Title)
		assert.Equal(t, 1, store.Len())
		books.AssertNotCalled(t, "GetBook", mock.Anything, mock.Anything)
	})

	t.Run("Success - Add By ID Looks Up Catalog", func(t *testing.T) {
		// Arrange
		store, books, router := setupCartTest()
		books.On("GetBook", mock.Anything, "b2").
			Return(&models.Book{ID: "b2", Title: "Emma", NewPrice: decimal.RequireFromString("4.50")}, nil).Once()
		req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"_id":"b2"}`))
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, "Emma", store.Items()[0].Title)
		books.AssertExpectations(t)
	})

	t.Run("Success - Duplicate Add Is Idempotent", func(t *testing.T) {
		// Arrange
		store, _, router := setupCartTest()
		body := `{"_id":"b1","title":"Dune","newPrice":"9.99"}`
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		var page pageOf[addView]
		decodePage(t, recorder, &page)
		assert.Equal(t, "duplicate", page.View.Result)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Failure - Negative Price Rejected", func(t *testing.T) {
		// Arrange
		store, _, router := setupCartTest()
		req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"_id":"b1","title":"Dune","newPrice":"-1"}`))
		recorder := httptest.NewRecorder()

		// Act
		router.ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodePage(t, recorder, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeBadRequest, resp.Error.Code)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("Failure - Malformed Body", func(t *testing.T) {
		_, _, router := setupCartTest()
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Success - Remove And Clear", func(t *testing.T) {
		// Arrange
		store, _, router := setupCartTest()
		ctx := t.Context()
		store.AddItem(ctx, models.CartItem{ID: "a", NewPrice: decimal.RequireFromString("1")})
		store.AddItem(ctx, models.CartItem{ID: "b", NewPrice: decimal.RequireFromString("2")})

		// Act
		removed := httptest.NewRecorder()
		router.ServeHTTP(removed, httptest.NewRequest(http.MethodDelete, "/cart/items/a", nil))
		absent := httptest.NewRecorder()
		router.ServeHTTP(absent, httptest.NewRequest(http.MethodDelete, "/cart/items/zzz", nil))

		// Assert
		assert.Equal(t, http.StatusOK, removed.Code)
		assert.Equal(t, http.StatusOK, absent.Code)
		var page pageOf[models.CartView]
		decodePage(t, absent, &page)
		assert.Equal(t, 1, page.View.Count)
		assert.Equal(t, "2.00", page.View.Total)

		cleared := httptest.NewRecorder()
		router.ServeHTTP(cleared, httptest.NewRequest(http.MethodDelete, "/cart", nil))
		decodePage(t, cleared, &page)
		assert.Equal(t, 0, page.View.Count)
		assert.NotNil(t, page.View.Items)
		assert.Equal(t, notify.PathHome, page.Location)
	})
}
