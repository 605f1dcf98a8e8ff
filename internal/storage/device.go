package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const deviceKey = "device:id"

// DeviceID returns the identifier of this client install, creating it on
// first use. Persisted carts are keyed by it.
func DeviceID(ctx context.Context, store Store) (string, error) {
	var id string

	found, err := store.Get(ctx, deviceKey, &id)
	if err != nil {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}

	if found && id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := store.Set(ctx, deviceKey, id, 0); err != nil {
		return "", fmt.Errorf("failed to store device id: %w", err)
	}

	return id, nil
}
