package storage_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/storage"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (storage.Store, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	return storage.NewRedisStore(client), mock
}

func TestRedisStoreGet(t *testing.T) {
	ctx := t.Context()
	testKey := storage.Key(storage.AdminKeyPrefix, "token")
	credential := models.AdminCredential{
		Token:     "abc.def.ghi",
		IssuedAt:  time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC),
	}
	jsonData, err := json.Marshal(credential)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)

		var result models.AdminCredential

		mock.ExpectGet(testKey).SetVal(string(jsonData))

		// Act
		found, err := store.Get(ctx, testKey, &result)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, credential.Token, result.Token)
		assert.True(t, credential.ExpiresAt.Equal(result.ExpiresAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Key Not Found", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)

		var result models.AdminCredential

		mock.ExpectGet(testKey).SetErr(redis.Nil)

		// Act
		found, err := store.Get(ctx, testKey, &result)

		// Assert
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, result.Token)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)

		var result models.AdminCredential

		expectedErr := errors.New("redis connection error")
		mock.ExpectGet(testKey).SetErr(expectedErr)

		// Act
		found, err := store.Get(ctx, testKey, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), fmt.Sprintf("failed to get key %s from redis", testKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unmarshal Error", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)

		var result models.AdminCredential

		mock.ExpectGet(testKey).SetVal(`{"token": 42}`)

		// Act
		found, err := store.Get(ctx, testKey, &result)

		// Assert
		require.Error(t, err)
		assert.False(t, found)

		var jsonErr *json.UnmarshalTypeError

		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStoreSet(t *testing.T) {
	ctx := t.Context()
	testKey := storage.Key(storage.CartKeyPrefix, "device-1")
	items := []models.CartItem{{ID: "a", Title: "Dune"}}
	jsonData, err := json.Marshal(items)
	require.NoError(t, err)

	t.Run("Success - With TTL", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		ttl := time.Hour

		mock.ExpectSet(testKey, jsonData, ttl).SetVal("OK")

		// Act
		err := store.Set(ctx, testKey, items, ttl)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Without Expiry", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)

		mock.ExpectSet(testKey, jsonData, 0).SetVal("OK")

		// Act
		err := store.Set(ctx, testKey, items, -time.Second)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Marshal Error", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)

		// Act
		err := store.Set(ctx, testKey, make(chan int), time.Minute)

		// Assert
		require.Error(t, err)

		var jsonErr *json.UnsupportedTypeError

		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		expectedErr := errors.New("redis SET failed")

		mock.ExpectSet(testKey, jsonData, time.Hour).SetErr(expectedErr)

		// Act
		err := store.Set(ctx, testKey, items, time.Hour)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := t.Context()
	testKey := storage.Key(storage.AdminKeyPrefix, "token")

	t.Run("Success", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)

		mock.ExpectDel(testKey).SetVal(1)

		// Act
		err := store.Delete(ctx, testKey)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		store, mock := setup(t)
		expectedErr := errors.New("redis DEL failed")

		mock.ExpectDel(testKey).SetErr(expectedErr)

		// Act
		err := store.Delete(ctx, testKey)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), fmt.Sprintf("failed to delete key %s from redis", testKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cart:device-1", storage.Key(storage.CartKeyPrefix, "device-1"))
	assert.Equal(t, "admin:token", storage.Key(storage.AdminKeyPrefix, "token"))
	assert.Equal(t, ":", storage.Key("", ""))
}
