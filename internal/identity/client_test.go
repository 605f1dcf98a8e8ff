package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/config"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/identity"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *identity.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return identity.NewClient(&config.Identity{BaseURL: server.URL, APIKey: "test-key", Timeout: 5 * time.Second}, "http://localhost", nil)
}

func writeProviderError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": 400, "message": message},
	})
}

func waitForUser(t *testing.T, ch <-chan *models.User) *models.User {
	t.Helper()

	select {
	case u := <-ch:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for auth state")
		return nil
	}
}

func TestSignInWithPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Returns User And Notifies Observers", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "reader@example.com", body["email"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"localId":     "uid-1",
				"email":       "reader@example.com",
				"displayName": "Reader",
				"idToken":     "id-token",
			})
		})

		states := make(chan *models.User, 4)
		unsubscribe := client.OnAuthStateChanged(func(u *models.User) { states <- u })
		defer unsubscribe()
		assert.Nil(t, waitForUser(t, states))

		// Act
		user, err := client.SignInWithPassword(ctx, "reader@example.com", "secret123")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "uid-1", user.UID)
		assert.Equal(t, "password", user.Provider)
		observed := waitForUser(t, states)
		require.NotNil(t, observed)
		assert.Equal(t, "uid-1", observed.UID)
		assert.Equal(t, "uid-1", client.CurrentUser().UID)
	})

	t.Run("Failure - Decodes Provider Code", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeProviderError(w, "INVALID_PASSWORD")
		})

		// Act
		user, err := client.SignInWithPassword(ctx, "reader@example.com", "secret123")

		// Assert
		assert.Nil(t, user)
		assert.Equal(t, identity.CodeInvalidPassword, identity.CodeOf(err))
		assert.Nil(t, client.CurrentUser())
	})

	t.Run("Failure - Strips Detail From Code", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeProviderError(w, "WEAK_PASSWORD : Password should be at least 6 characters")
		})

		// Act
		_, err := client.SignUp(ctx, "reader@example.com", "abc")

		// Assert
		var idErr *identity.Error
		require.ErrorAs(t, err, &idErr)
		assert.Equal(t, identity.CodeWeakPassword, idErr.Code)
		assert.Equal(t, "Password should be at least 6 characters", idErr.Message)
	})

	t.Run("Failure - Non JSON Outage", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "upstream down", http.StatusServiceUnavailable)
		})

		// Act
		_, err := client.SignInWithPassword(ctx, "reader@example.com", "secret123")

		// Assert
		assert.Equal(t, "HTTP_503", identity.CodeOf(err))
	})
}

func TestSignInWithIdP(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Sends Provider Post Body", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/accounts:signInWithIdp", r.URL.Path)

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body["postBody"], "providerId=google.com")
			assert.Contains(t, body["postBody"], "access_token=google-access")

			_ = json.NewEncoder(w).Encode(map[string]any{
				"localId":    "uid-g",
				"email":      "user@gmail.com",
				"providerId": "google.com",
			})
		})

		// Act
		user, err := client.SignInWithIdP(ctx, &identity.IdPCredential{ProviderID: identity.GoogleProviderID, AccessToken: "google-access"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "google.com", user.Provider)
	})

	t.Run("Failure - Nil Credential Is Cancellation", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			t.Error("no request expected")
		})

		_, err := client.SignInWithIdP(ctx, nil)

		assert.Equal(t, identity.CodeConsentCancelled, identity.CodeOf(err))
	})
}

func TestOnAuthStateChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Sign Out Notifies And Unsubscribe Stops Delivery", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"localId": "uid-1", "email": "reader@example.com"})
		})
		states := make(chan *models.User, 8)
		unsubscribe := client.OnAuthStateChanged(func(u *models.User) { states <- u })
		waitForUser(t, states)

		_, err := client.SignInWithPassword(ctx, "reader@example.com", "secret123")
		require.NoError(t, err)
		require.NotNil(t, waitForUser(t, states))

		// Act
		require.NoError(t, client.SignOut(ctx))

		// Assert
		assert.Nil(t, waitForUser(t, states))

		unsubscribe()
		unsubscribe()
		_, err = client.SignInWithPassword(ctx, "reader@example.com", "secret123")
		require.NoError(t, err)
		select {
		case u := <-states:
			t.Fatalf("unexpected delivery after unsubscribe: %+v", u)
		case <-time.After(50 * time.Millisecond):
		}
	})
}
