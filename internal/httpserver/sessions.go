package httpserver

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"vitrine-storefront/internal/cart"
	"vitrine-storefront/internal/catalog"
	"vitrine-storefront/internal/checkout"
	"vitrine-storefront/internal/storage"
	"vitrine-storefront/internal/variant"
)

// CatalogLoader fetches the product snapshot behind a share token.
type CatalogLoader interface {
	Load(ctx context.Context, token string) (*catalog.Snapshot, error)
}

// session is one catalog view's worth of state: the snapshot, the cart store
// hydrated from the persisted slot, the size picker and the checkout
// coordinator. All cart mutations for a token funnel through its session,
// serialized by mu.
type session struct {
	mu       sync.Mutex
	snapshot *catalog.Snapshot
	store    *cart.Store
	flow     *variant.Flow
	checkout *checkout.Coordinator
}

// registry lazily builds sessions keyed by catalog share token. Carts for
// different catalogs never collide: each session hydrates from its own slot.
type registry struct {
	loader  CatalogLoader
	orders  checkout.OrderAPI
	handoff checkout.Handoff
	slot    storage.Slot
	opts    checkout.Options
	logger  *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func newRegistry(loader CatalogLoader, orders checkout.OrderAPI, handoff checkout.Handoff, slot storage.Slot, opts checkout.Options, logger *logrus.Logger) *registry {
	return &registry{
		loader:   loader,
		orders:   orders,
		handoff:  handoff,
		slot:     slot,
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// get returns the session for token, loading the catalog snapshot and
// hydrating the cart on first touch.
func (r *registry) get(ctx context.Context, token string) (*session, error) {
	r.mu.Lock()
	if s, ok := r.sessions[token]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	// load outside the lock; the catalog call can be slow
	snapshot, err := r.loader.Load(ctx, token)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		return s, nil
	}

	store := cart.New(ctx, token, snapshot, r.slot, r.logger)
	s := &session{
		snapshot: snapshot,
		store:    store,
		flow:     &variant.Flow{},
		checkout: checkout.New(store, r.orders, r.handoff, r.opts, r.logger),
	}
	r.sessions[token] = s
	return s, nil
}
