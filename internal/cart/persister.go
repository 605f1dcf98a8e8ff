package cart

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/storage"
)

// StoragePersister keeps the cart under one key of client storage, scoped to
// a device so two installs never share a cart.
type StoragePersister struct {
	store storage.Store
	key   string
}

func NewStoragePersister(store storage.Store, prefix, deviceID string) *StoragePersister {
	return &StoragePersister{store: store, key: storage.Key(prefix, deviceID)}
}

func (p *StoragePersister) Load(ctx context.Context) ([]models.CartItem, bool, error) {
	var items []models.CartItem

	found, err := p.store.Get(ctx, p.key, &items)
	if err != nil {
		return nil, false, fmt.Errorf("load cart: %w", err)
	}

	return items, found, nil
}

func (p *StoragePersister) Save(ctx context.Context, items []models.CartItem) error {
	if len(items) == 0 {
		if err := p.store.Delete(ctx, p.key); err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return nil
	}

	if err := p.store.Set(ctx, p.key, items, 0); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	return nil
}
