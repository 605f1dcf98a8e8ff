// Package storage is the client-side key/value storage holding the admin
// credential and, when enabled, the persisted cart.
package storage

import (
	"context"
	"time"
)

// Store persists JSON-encoded values. A ttl <= 0 keeps the value until it is
// deleted.
type Store interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	CartKeyPrefix   = "cart"
	AdminKeyPrefix  = "admin"
	OrdersKeyPrefix = "orders"
)
