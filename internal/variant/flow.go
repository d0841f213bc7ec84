// Package variant implements the size picker state machine gating entry into
// the cart for products that carry a variant dimension.
package variant

import (
	"context"

	"vitrine-storefront/internal/domain"
)

// Adder is the cart operation the flow delegates to on confirm.
type Adder interface {
	Add(ctx context.Context, product domain.Product, size string) error
}

// Flow moves Closed -> Open(product) -> Open(product, size) -> Closed. All
// state is reset when a different product is opened, so nothing bleeds across
// products. The flow is driven by a single session; callers serialize access.
type Flow struct {
	open     bool
	product  domain.Product
	size     string
	needSize bool
}

// Open starts the picker for product, resetting any previous choice and
// validation flag.
func (f *Flow) Open(product domain.Product) {
	f.open = true
	f.product = product
	f.size = ""
	f.needSize = false
}

// Pick records the chosen size and clears the validation flag.
func (f *Flow) Pick(size string) {
	if !f.open {
		return
	}
	f.size = size
	f.needSize = false
}

// Cancel closes the picker without touching the cart.
func (f *Flow) Cancel() {
	*f = Flow{}
}

// Confirm adds the open product to the cart. If the product requires a size
// and none is picked, the flow stays open with the validation flag set and
// returns ErrVariantRequired; otherwise it delegates to the adder and closes.
func (f *Flow) Confirm(ctx context.Context, cart Adder) error {
	if !f.open {
		return nil
	}
	if f.product.HasVariants() && f.size == "" {
		f.needSize = true
		return domain.ErrVariantRequired
	}
	if err := cart.Add(ctx, f.product, f.size); err != nil {
		return err
	}
	*f = Flow{}
	return nil
}

// IsOpen reports whether the picker is showing.
func (f *Flow) IsOpen() bool { return f.open }

// Product returns the product under selection while the picker is open.
func (f *Flow) Product() (domain.Product, bool) {
	return f.product, f.open
}

// Size is the currently picked size, empty when none.
func (f *Flow) Size() string { return f.size }

// NeedsSize reports the validation flag raised by a confirm without a size.
func (f *Flow) NeedsSize() bool { return f.needSize }
