// Package catalog loads the immutable product snapshot behind a public
// catalog share token.
package catalog

import "vitrine-storefront/internal/domain"

// Merchant is the contact information riding along with a public catalog.
type Merchant struct {
	WhatsAppPhone string
}

// Snapshot is the read-only product list for one share token. It is replaced
// wholesale on reload, never mutated.
type Snapshot struct {
	token    string
	title    string
	merchant Merchant
	products []domain.Product
	byID     map[int64]domain.Product
}

func NewSnapshot(token, title string, merchant Merchant, products []domain.Product) *Snapshot {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Snapshot{
		token:    token,
		title:    title,
		merchant: merchant,
		products: products,
		byID:     byID,
	}
}

func (s *Snapshot) Token() string      { return s.token }
func (s *Snapshot) Title() string      { return s.title }
func (s *Snapshot) Merchant() Merchant { return s.merchant }

func (s *Snapshot) Products() []domain.Product {
	return s.products
}

func (s *Snapshot) Product(id int64) (domain.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}
