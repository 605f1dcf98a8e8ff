package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cart  Cart
	books BooksQuery
	feed  Feed
}

func NewCartHandler(cart Cart, books BooksQuery, feed Feed) *CartHandler {
	return &CartHandler{cart: cart, books: books, feed: feed}
}

type addItemResult struct {
	Result string          `json:"result"`
	Cart   models.CartView `json:"cart"`
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, h.feed, http.StatusOK, h.cart.Snapshot())
	}
}

// AddItem accepts either a full cart item or {"_id": ...} alone, in which case
// the book is looked up in the catalog first.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var item models.CartItem
		if err := utils.DecodeJSONBody(r, &item); err != nil {
			response.Error(w, err)
			return
		}

		if item.ID != "" && item.Title == "" && h.books != nil {
			book, err := h.books.GetBook(r.Context(), item.ID)
			if err != nil {
				logger.Warn("Failed to look up book", slog.String("bookId", item.ID), slog.Any("error", err))
				response.Error(w, err)
				return
			}
			item = book.CartItem()
		}

		result := h.cart.AddItem(r.Context(), item)
		logger.Info("Cart add", slog.String("bookId", item.ID), slog.String("result", result.String()))

		status := http.StatusOK
		switch result {
		case models.ItemAdded:
			status = http.StatusCreated
		case models.ItemRejected:
			response.Error(w, errors.BadRequestError("Item cannot be added"))
			return
		}

		render(w, h.feed, status, addItemResult{Result: result.String(), Cart: h.cart.Snapshot()})
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id := chi.URLParam(r, "id")
		if !h.cart.RemoveItem(r.Context(), id) {
			middleware.LoggerFromContext(r.Context()).Debug("Remove of absent cart item", slog.String("bookId", id))
		}

		render(w, h.feed, http.StatusOK, h.cart.Snapshot())
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.cart.Clear(r.Context())
		render(w, h.feed, http.StatusOK, h.cart.Snapshot())
	}
}
