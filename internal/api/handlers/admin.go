package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AdminHandler struct {
	session   AdminSession
	api       AdminAPI
	books     BooksQuery
	validator *validator.Validate
	feed      Feed
}

func NewAdminHandler(session AdminSession, api AdminAPI, books BooksQuery, validate *validator.Validate, feed Feed) *AdminHandler {
	return &AdminHandler{session: session, api: api, books: books, validator: validate, feed: feed}
}

type adminLoginView struct {
	ExpiresAt string `json:"expiresAt"`
}

func (h *AdminHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AdminLoginRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		cred, err := h.session.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			logger.Warn("Admin login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		// the token itself stays in the session store
		render(w, h.feed, http.StatusOK, adminLoginView{ExpiresAt: cred.ExpiresAt.UTC().Format(time.RFC3339)})
	}
}

func (h *AdminHandler) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		stats, err := h.api.Stats(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to load admin stats", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		render(w, h.feed, http.StatusOK, stats)
	}
}

func (h *AdminHandler) ListBooks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		books, err := h.books.ListBooks(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list books", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		render(w, h.feed, http.StatusOK, books)
	}
}

func (h *AdminHandler) CreateBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.BookRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator, bookMessages) {
			return
		}

		book, err := h.api.CreateBook(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create book", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Book created", slog.String("bookId", book.ID))
		render(w, h.feed, http.StatusCreated, book)
	}
}

func (h *AdminHandler) UpdateBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id := chi.URLParam(r, "id")
		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("bookId", id))

		var req models.BookRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator, bookMessages) {
			return
		}

		book, err := h.api.UpdateBook(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update book", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Book updated")
		render(w, h.feed, http.StatusOK, book)
	}
}

func (h *AdminHandler) DeleteBook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id := chi.URLParam(r, "id")
		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("bookId", id))

		if err := h.api.DeleteBook(r.Context(), id); err != nil {
			logger.Error("Failed to delete book", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Book deleted")
		render(w, h.feed, http.StatusOK, nil)
	}
}

func (h *AdminHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		orders, err := h.api.AllOrders(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list all orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		render(w, h.feed, http.StatusOK, orders)
	}
}

func (h *AdminHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.session.Logout(r.Context())
		render(w, h.feed, http.StatusOK, nil)
	}
}

var bookMessages = validation.Messages{
	"title.required":       "Title is required",
	"description.required": "Description is required",
	"category.required":    "Category is required",
	"category.category":    "Unknown category",
	"coverImage.required":  "Cover image is required",
	"oldPrice.gte":         "Old price cannot be negative",
	"newPrice.gte":         "New price cannot be negative",
}
