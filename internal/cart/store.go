// Package cart holds the client-side shopping cart.
package cart

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/shopspring/decimal"
)

// Persister saves cart contents between runs. Implementations must not
// retain the slices they are given.
type Persister interface {
	Load(ctx context.Context) ([]models.CartItem, bool, error)
	Save(ctx context.Context, items []models.CartItem) error
}

// Store is the process-wide cart. Every mutation goes through the reducer
// functions under mu, so Store is the only writer of the cart.
type Store struct {
	mu      sync.Mutex
	items   []models.CartItem
	version uint64

	// saveMu orders writes to the persister; saved is the newest version
	// written so far. Neither is held together with mu.
	saveMu sync.Mutex
	saved  uint64

	notifier  notify.Notifier
	persister Persister
	logger    *slog.Logger
}

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(opts ...Option) *Store {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Restore replaces the in-memory cart with the persisted one, if any.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	items, found, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}

	if !found {
		return nil
	}

	// re-run the reducer so a tampered record cannot break uniqueness
	var restored []models.CartItem
	for _, item := range items {
		restored, _ = Add(restored, item)
	}

	s.mu.Lock()
	s.items = restored
	s.mu.Unlock()

	s.logger.Info("Cart restored", slog.Int("items", len(restored)))

	return nil
}

// AddItem inserts item unless its ID is already in the cart. Adding is
// idempotent: a duplicate leaves the cart untouched and the user is told so.
func (s *Store) AddItem(ctx context.Context, item models.CartItem) models.AddResult {
	var snap snapshot

	s.mu.Lock()
	next, result := Add(s.items, item)
	if result == models.ItemAdded {
		s.items = next
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	s.persist(ctx, snap)

	metrics.CartMutations.WithLabelValues("add", result.String()).Inc()

	switch result {
	case models.ItemAdded:
		s.notify(ctx, notify.Success("Item added to cart", ""))
	case models.ItemAlreadyInCart:
		s.notify(ctx, notify.Error("Item already in cart", ""))
	case models.ItemRejected:
		s.logger.Warn("Rejected invalid cart item", slog.String("itemId", item.ID), slog.String("price", item.NewPrice.String()))
		s.notify(ctx, notify.Error("Item cannot be added", ""))
	}

	return result
}

// RemoveItem drops the entry with itemID; unknown IDs are a no-op.
func (s *Store) RemoveItem(ctx context.Context, itemID string) bool {
	var snap snapshot

	s.mu.Lock()
	next, removed := Remove(s.items, itemID)
	if removed {
		s.items = next
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	s.persist(ctx, snap)

	result := "noop"
	if removed {
		result = "removed"
	}
	metrics.CartMutations.WithLabelValues("remove", result).Inc()

	return removed
}

// Clear empties the cart unconditionally.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snap)

	metrics.CartMutations.WithLabelValues("clear", "cleared").Inc()
}

// Items returns a copy of the cart in display order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Total is recomputed on every read.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Total(s.items)
}

// FormattedTotal is Total with exactly two decimals, e.g. "25.50".
func (s *Store) FormattedTotal() string {
	return s.Total().StringFixed(2)
}

// Snapshot reads items and total under a single lock so they agree.
func (s *Store) Snapshot() models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := slices.Clone(s.items)
	if items == nil {
		items = []models.CartItem{}
	}

	return models.CartView{
		Items: items,
		Count: len(items),
		Total: Total(items).StringFixed(2),
	}
}

// snapshot is a copy of the cart tagged with the mutation that produced it.
// The zero value means nothing changed.
type snapshot struct {
	version uint64
	items   []models.CartItem
}

func (s *Store) snapshotLocked() snapshot {
	if s.persister == nil {
		return snapshot{}
	}

	s.version++

	return snapshot{version: s.version, items: slices.Clone(s.items)}
}

// persist writes snap outside mu. A snapshot older than one already written
// is dropped, so storage never goes back to an earlier cart.
func (s *Store) persist(ctx context.Context, snap snapshot) {
	if s.persister == nil || snap.version == 0 {
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if snap.version <= s.saved {
		return
	}

	if err := s.persister.Save(ctx, snap.items); err != nil {
		// the in-memory cart stays authoritative for this run
		s.logger.Error("Failed to persist cart", slog.Any("error", err))
		return
	}

	s.saved = snap.version
}

func (s *Store) notify(ctx context.Context, n models.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, n)
	}
}
