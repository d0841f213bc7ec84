package cart

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"vitrine-storefront/internal/domain"
	"vitrine-storefront/internal/storage"
)

type stubCatalog struct {
	products []domain.Product
}

func (s *stubCatalog) Products() []domain.Product {
	return s.products
}

func (s *stubCatalog) Product(id int64) (domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

type failingSlot struct{}

func (failingSlot) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("storage down")
}

func (failingSlot) Save(context.Context, string, []byte) error {
	return errors.New("storage down")
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func price(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleCatalog() *stubCatalog {
	return &stubCatalog{products: []domain.Product{
		{ID: 7, Name: "Camiseta", Price: price("25.00"), Sizes: []string{"P", "M", "G"}},
		{ID: 8, Name: "Caneca", Price: price("12.50")},
	}}
}

func newTestStore(t *testing.T, token string, slot storage.Slot) *Store {
	t.Helper()
	return New(context.Background(), token, sampleCatalog(), slot, testLogger())
}

func TestAddWithoutVariantMergesQuantity(t *testing.T) {
	s := newTestStore(t, "tok1", storage.NewMemory())
	mug, _ := sampleCatalog().Product(8)

	if err := s.Add(context.Background(), mug, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add(context.Background(), mug, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected a single entry, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddSizedProductRequiresVariant(t *testing.T) {
	s := newTestStore(t, "tok1", storage.NewMemory())
	shirt, _ := sampleCatalog().Product(7)

	if err := s.Add(context.Background(), shirt, ""); !errors.Is(err, domain.ErrVariantRequired) {
		t.Fatalf("expected variant required, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("failed add must not change state")
	}
}

func TestAddDistinctSizesAreIndependentEntries(t *testing.T) {
	s := newTestStore(t, "tok1", storage.NewMemory())
	shirt, _ := sampleCatalog().Product(7)

	for _, size := range []string{"M", "P", "M"} {
		if err := s.Add(context.Background(), shirt, size); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(items))
	}
	// size display order: P before M
	if items[0].Size != "P" || items[0].Quantity != 1 {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].Size != "M" || items[1].Quantity != 2 {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestDecrement(t *testing.T) {
	s := newTestStore(t, "tok1", storage.NewMemory())
	mug, _ := sampleCatalog().Product(8)
	key := domain.BuildKey(8, "")

	_ = s.Add(context.Background(), mug, "")
	_ = s.Add(context.Background(), mug, "")

	s.Decrement(context.Background(), key)
	if items := s.Items(); len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %+v", items)
	}

	s.Decrement(context.Background(), key)
	if s.Len() != 0 {
		t.Fatalf("decrement at quantity 1 must remove the entry")
	}

	s.Decrement(context.Background(), key) // absent key: no-op
	if s.Len() != 0 {
		t.Fatalf("decrement on absent key must be a no-op")
	}
}

func TestIncrementAbsentKeyIsNoop(t *testing.T) {
	s := newTestStore(t, "tok1", storage.NewMemory())
	s.Increment(context.Background(), domain.BuildKey(8, ""))
	if s.Len() != 0 {
		t.Fatalf("increment on absent key must be a no-op")
	}
}

func TestStateRoundTripsThroughSlot(t *testing.T) {
	slot := storage.NewMemory()
	s := newTestStore(t, "tok1", slot)
	shirt, _ := sampleCatalog().Product(7)
	mug, _ := sampleCatalog().Product(8)

	_ = s.Add(context.Background(), shirt, "M")
	_ = s.Add(context.Background(), shirt, "M")
	_ = s.Add(context.Background(), shirt, "G")
	_ = s.Add(context.Background(), mug, "")

	rehydrated := newTestStore(t, "tok1", slot)
	if !reflect.DeepEqual(rehydrated.Items(), s.Items()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", rehydrated.Items(), s.Items())
	}
}

func TestTokensAreIsolated(t *testing.T) {
	slot := storage.NewMemory()
	s1 := newTestStore(t, "tok1", slot)
	mug, _ := sampleCatalog().Product(8)
	_ = s1.Add(context.Background(), mug, "")

	s2 := newTestStore(t, "tok2", slot)
	if s2.Len() != 0 {
		t.Fatalf("cart for tok1 must not be visible under tok2")
	}
}

func TestMalformedSlotYieldsEmptyCart(t *testing.T) {
	slot := storage.NewMemory()
	if err := slot.Save(context.Background(), "tok1", []byte("not json at all")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := newTestStore(t, "tok1", slot)
	if s.Len() != 0 {
		t.Fatalf("malformed payload must hydrate as empty")
	}
}

func TestStaleEntriesDroppedFromSnapshot(t *testing.T) {
	slot := storage.NewMemory()
	payload := []byte(`{"999":{"quantity":3},"8":{"quantity":1}}`)
	if err := slot.Save(context.Background(), "tok1", payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := newTestStore(t, "tok1", slot)
	items := s.Items()
	if len(items) != 1 || items[0].Product.ID != 8 {
		t.Fatalf("stale entry not dropped: %+v", items)
	}
	// the raw entry survives in state; only the join hides it
	if s.Len() != 2 {
		t.Fatalf("expected 2 raw entries, got %d", s.Len())
	}
}

func TestTotals(t *testing.T) {
	s := newTestStore(t, "tok1", storage.NewMemory())
	shirt, _ := sampleCatalog().Product(7)
	mug, _ := sampleCatalog().Product(8)

	_ = s.Add(context.Background(), shirt, "M")
	_ = s.Add(context.Background(), shirt, "M")
	_ = s.Add(context.Background(), mug, "")

	totals := s.Totals()
	if !totals.Sum.Equal(price("62.50")) {
		t.Fatalf("expected total 62.50, got %s", totals.Sum)
	}
	if totals.ItemCount != 3 {
		t.Fatalf("expected 3 items, got %d", totals.ItemCount)
	}

	s.Decrement(context.Background(), domain.BuildKey(7, "M"))
	if got := s.Totals(); !got.Sum.Equal(price("37.50")) || got.ItemCount != 2 {
		t.Fatalf("totals not recomputed: %+v", got)
	}
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	s := New(context.Background(), "tok1", sampleCatalog(), failingSlot{}, testLogger())
	mug, _ := sampleCatalog().Product(8)

	if err := s.Add(context.Background(), mug, ""); err != nil {
		t.Fatalf("storage failure must not surface from Add: %v", err)
	}
	if items := s.Items(); len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("in-memory cart must stay correct, got %+v", items)
	}
}

func TestClearEmptiesAndPersists(t *testing.T) {
	slot := storage.NewMemory()
	s := newTestStore(t, "tok1", slot)
	mug, _ := sampleCatalog().Product(8)
	_ = s.Add(context.Background(), mug, "")

	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("clear must empty the cart")
	}

	rehydrated := newTestStore(t, "tok1", slot)
	if rehydrated.Len() != 0 {
		t.Fatalf("cleared state must persist")
	}
}
