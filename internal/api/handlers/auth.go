package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/storage"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
	"github.com/google/uuid"
)

const (
	oauthStatePrefix = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	session CustomerSession
	google  ConsentProvider
	states  storage.Store
	feed    Feed
}

// NewAuthHandler builds the customer auth routes. states holds the pending
// OAuth state values between the redirect and the callback.
func NewAuthHandler(session CustomerSession, google ConsentProvider, states storage.Store, feed Feed) *AuthHandler {
	return &AuthHandler{session: session, google: google, states: states, feed: feed}
}

func (h *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		user, err := h.session.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.Warn("Login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		render(w, h.feed, http.StatusOK, user)
	}
}

func (h *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		user, err := h.session.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			logger.Warn("Registration failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		render(w, h.feed, http.StatusCreated, user)
	}
}

// GoogleLogin sends the browser to the consent screen.
func (h *AuthHandler) GoogleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if h.google == nil || !h.google.Enabled() {
			response.Error(w, errors.NotFoundError("Google sign-in is not configured"))
			return
		}

		state := uuid.NewString()
		if err := h.states.Set(r.Context(), storage.Key(oauthStatePrefix, state), true, oauthStateTTL); err != nil {
			logger.Error("Failed to store oauth state", slog.Any("error", err))
			response.Error(w, errors.InternalError("Failed to start Google sign-in").WithError(err))
			return
		}

		response.Redirect(w, h.google.GetLoginURL(state))
	}
}

func (h *AuthHandler) GoogleCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		if h.google == nil || !h.google.Enabled() {
			response.Error(w, errors.NotFoundError("Google sign-in is not configured"))
			return
		}

		query := r.URL.Query()
		flow := h.google.Callback(query, h.takeState(r.Context(), query.Get("state")))

		user, err := h.session.SignInWithFederatedProvider(r.Context(), flow)
		if err != nil {
			logger.Warn("Google sign-in failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		render(w, h.feed, http.StatusOK, user)
	}
}

func (h *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.session.LogOut(r.Context())
		render(w, h.feed, http.StatusOK, nil)
	}
}

// takeState returns state if it was issued by GoogleLogin and not used yet,
// or "" otherwise. Each state is accepted once.
func (h *AuthHandler) takeState(ctx context.Context, state string) string {
	if state == "" {
		return ""
	}

	key := storage.Key(oauthStatePrefix, state)

	var pending bool
	found, err := h.states.Get(ctx, key, &pending)
	if err != nil || !found {
		return ""
	}

	if err := h.states.Delete(ctx, key); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to delete oauth state", slog.Any("error", err))
	}

	return state
}
