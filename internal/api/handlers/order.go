package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
)

type OrderHandler struct {
	orders OrdersQuery
	feed   Feed
}

func NewOrderHandler(orders OrdersQuery, feed Feed) *OrderHandler {
	return &OrderHandler{orders: orders, feed: feed}
}

// ListOrders returns the signed-in customer's order history.
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			logger.Warn("Order history requested without a customer")
			response.Error(w, errors.AuthenticationError(errors.ReasonNone, "Authentication required"))
			return
		}

		orders, err := h.orders.GetOrdersByEmail(r.Context(), user.Email)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Orders listed", slog.Int("count", len(orders)))
		render(w, h.feed, http.StatusOK, orders)
	}
}
