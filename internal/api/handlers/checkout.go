package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
)

type CheckoutHandler struct {
	checkout Checkout
	feed     Feed
}

func NewCheckoutHandler(checkout Checkout, feed Feed) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, feed: feed}
}

func (h *CheckoutHandler) Enter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		view, err := h.checkout.Enter(r.Context())
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeCartEmpty) {
				response.Redirect(w, h.feed.Location())
				return
			}
			response.Error(w, err)
			return
		}

		render(w, h.feed, http.StatusOK, view)
	}
}

// Validate checks the shipping form as the user fills it in. Nothing is
// submitted and the pipeline status is untouched.
func (h *CheckoutHandler) Validate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var form models.ShippingForm
		if err := utils.DecodeJSONBody(r, &form); err != nil {
			response.Error(w, err)
			return
		}

		if err := h.checkout.Validate(form); err != nil {
			response.Error(w, err)
			return
		}

		render(w, h.feed, http.StatusOK, map[string]bool{"valid": true})
	}
}

func (h *CheckoutHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var form models.ShippingForm
		if err := utils.DecodeJSONBody(r, &form); err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.checkout.Submit(r.Context(), form)
		if err != nil {
			logger.Warn("Checkout submission failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed", slog.String("orderId", order.ID))
		render(w, h.feed, http.StatusCreated, order)
	}
}
