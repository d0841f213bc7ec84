// Package cart owns all cart mutation and persistence logic for one catalog
// browsing session.
package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"vitrine-storefront/internal/domain"
	"vitrine-storefront/internal/storage"
)

// Catalog is the read-only product snapshot the store joins against.
type Catalog interface {
	Products() []domain.Product
	Product(id int64) (domain.Product, bool)
}

// Store holds the cart state for a single catalog share token. State is
// mutated only through its operations; every successful mutation is persisted
// synchronously to the injected slot, and storage failures are swallowed so
// the in-memory cart stays usable for the rest of the session.
type Store struct {
	token   string
	catalog Catalog
	slot    storage.Slot
	logger  *logrus.Logger

	mu    sync.Mutex
	state map[domain.CartKey]domain.CartEntry
}

// New builds a Store hydrated from the persisted slot for token. Missing or
// malformed payloads yield an empty cart, never an error.
func New(ctx context.Context, token string, catalog Catalog, slot storage.Slot, logger *logrus.Logger) *Store {
	s := &Store{
		token:   token,
		catalog: catalog,
		slot:    slot,
		logger:  logger,
		state:   make(map[domain.CartKey]domain.CartEntry),
	}

	payload, ok, err := slot.Load(ctx, token)
	if err != nil {
		logger.WithError(err).WithField("token", token).Warn("load cart slot failed, starting empty")
		return s
	}
	if !ok {
		return s
	}
	state, err := decodeState(payload)
	if err != nil {
		logger.WithError(err).WithField("token", token).Warn("cart slot unparsable, starting empty")
		return s
	}
	s.state = state
	return s
}

// Add puts one unit of product into the cart. Sized products require a size;
// without one the call fails with ErrVariantRequired and changes nothing.
func (s *Store) Add(ctx context.Context, product domain.Product, size string) error {
	if product.HasVariants() && size == "" {
		return domain.ErrVariantRequired
	}
	if !product.HasVariants() {
		size = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.BuildKey(product.ID, size)
	entry, ok := s.state[key]
	if !ok {
		entry = domain.CartEntry{Key: key, ProductID: product.ID, Size: size}
	}
	entry.Quantity++
	s.state[key] = entry

	s.persist(ctx)
	return nil
}

// Increment raises an existing entry's quantity by one. Absent keys are a
// no-op, not an error.
func (s *Store) Increment(ctx context.Context, key domain.CartKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.state[key]
	if !ok {
		return
	}
	entry.Quantity++
	s.state[key] = entry

	s.persist(ctx)
}

// Decrement lowers an entry's quantity by one, removing it entirely at
// quantity one. Absent keys are a no-op.
func (s *Store) Decrement(ctx context.Context, key domain.CartKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.state[key]
	if !ok {
		return
	}
	if entry.Quantity <= 1 {
		delete(s.state, key)
	} else {
		entry.Quantity--
		s.state[key] = entry
	}

	s.persist(ctx)
}

// Clear empties the cart and persists the empty state. Used only by a
// successful checkout.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = make(map[domain.CartKey]domain.CartEntry)
	s.persist(ctx)
	return nil
}

// Item is one cart entry joined against the catalog snapshot.
type Item struct {
	Key      domain.CartKey
	Product  domain.Product
	Size     string
	Quantity int
}

// LineTotal is the item's quantity times the product's unit price.
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Items materializes the cart in deterministic order: catalog order first,
// then size display order within a product. Entries whose product no longer
// exists in the snapshot are dropped silently; stale persisted carts may
// reference removed products.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	byProduct := make(map[int64][]domain.CartEntry, len(s.state))
	for _, entry := range s.state {
		byProduct[entry.ProductID] = append(byProduct[entry.ProductID], entry)
	}

	var items []Item
	for _, product := range s.catalog.Products() {
		entries := byProduct[product.ID]
		if len(entries) == 0 {
			continue
		}
		sizes := make([]string, 0, len(entries))
		bySize := make(map[string]domain.CartEntry, len(entries))
		for _, entry := range entries {
			sizes = append(sizes, entry.Size)
			bySize[entry.Size] = entry
		}
		domain.SortSizes(sizes)
		for _, size := range sizes {
			entry := bySize[size]
			items = append(items, Item{
				Key:      entry.Key,
				Product:  product,
				Size:     entry.Size,
				Quantity: entry.Quantity,
			})
		}
	}
	return items
}

// Totals are derived values, recomputed on every call.
type Totals struct {
	Sum       decimal.Decimal
	ItemCount int
}

// Totals sums quantity times price across the current snapshot join.
func (s *Store) Totals() Totals {
	totals := Totals{Sum: decimal.Zero}
	for _, item := range s.Items() {
		totals.Sum = totals.Sum.Add(item.LineTotal())
		totals.ItemCount += item.Quantity
	}
	return totals
}

// Len reports the number of distinct entries, bypassing the catalog join.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state)
}

// persist re-serializes the full state to the slot. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	payload, err := encodeState(s.state)
	if err != nil {
		s.logger.WithError(err).WithField("token", s.token).Warn("encode cart state failed")
		return
	}
	if err := s.slot.Save(ctx, s.token, payload); err != nil {
		s.logger.WithError(err).WithField("token", s.token).Warn("persist cart failed, keeping in-memory state")
	}
}
