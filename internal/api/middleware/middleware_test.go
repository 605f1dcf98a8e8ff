package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCustomer struct {
	user *models.User
}

func (s staticCustomer) CurrentUser() *models.User {
	return s.user
}

func TestLogging(t *testing.T) {
	t.Run("Success - Generates Correlation ID", func(t *testing.T) {
		// Arrange
		var seen bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.LoggerFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusTeapot)
		})
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		recorder := httptest.NewRecorder()

		// Act
		middleware.Logging(next).ServeHTTP(recorder, req)

		// Assert
		assert.True(t, seen)
		assert.Equal(t, http.StatusTeapot, recorder.Code)
		assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
	})

	t.Run("Success - Keeps Caller Correlation ID", func(t *testing.T) {
		// Arrange
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("X-Request-ID", "req-42")
		recorder := httptest.NewRecorder()

		// Act
		middleware.Logging(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, "req-42", recorder.Header().Get("X-Request-ID"))
	})
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func TestLoggingCompletion(t *testing.T) {
	t.Run("Success - Logs Route Pattern And Status", func(t *testing.T) {
		// Arrange
		logs := captureLogs(t)
		r := chi.NewRouter()
		r.Use(middleware.Logging)
		r.Use(metrics.Middleware)
		r.Get("/cart/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("missing"))
		})

		// Act
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart/items/abc", nil))

		// Assert
		var completed map[string]any
		for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
			var entry map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &entry))
			if entry["msg"] == "Request completed" {
				completed = entry
			}
		}
		require.NotNil(t, completed)
		assert.Equal(t, "/cart/items/{id}", completed["route"])
		assert.Equal(t, "/cart/items/abc", completed["http_path"])
		assert.EqualValues(t, http.StatusNotFound, completed["http_status"])
		assert.EqualValues(t, len("missing"), completed["bytes"])
		assert.Equal(t, "WARN", completed["level"])
	})
}

func TestCustomer(t *testing.T) {
	t.Run("Success - Signed In Customer On Context", func(t *testing.T) {
		// Arrange
		user := &models.User{UID: "uid-1", Email: "reader@example.com"}
		var got *models.User
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := middleware.UserFromContext(r.Context())
			require.True(t, ok)
			got = u
		})
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)

		// Act
		middleware.Customer(staticCustomer{user: user})(next).ServeHTTP(httptest.NewRecorder(), req)

		// Assert
		require.NotNil(t, got)
		assert.Equal(t, "reader@example.com", got.Email)
	})

	t.Run("Success - Anonymous Passes Through", func(t *testing.T) {
		// Arrange
		var called, found bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			_, found = middleware.UserFromContext(r.Context())
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		// Act
		middleware.Customer(staticCustomer{})(next).ServeHTTP(httptest.NewRecorder(), req)

		// Assert
		assert.True(t, called)
		assert.False(t, found)
	})
}
