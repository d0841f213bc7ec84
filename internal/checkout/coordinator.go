// Package checkout orchestrates order submission, response interpretation,
// messaging handoff and the terminal cart reset.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"vitrine-storefront/internal/cart"
	"vitrine-storefront/internal/domain"
)

// CartStore is the slice of the cart the coordinator consumes: a snapshot at
// submission time, and the terminal clear after a confirmed success.
type CartStore interface {
	Items() []cart.Item
	Clear(ctx context.Context) error
}

// OrderAPI creates orders on the backend.
type OrderAPI interface {
	Create(ctx context.Context, in domain.OrderRequest) (*domain.OrderResult, error)
}

// Handoff initiates the external messaging channel with the prefilled link.
// Initiation is the success boundary: the cart is cleared only after the
// handoff collaborator accepts the link, never before.
type Handoff interface {
	Open(ctx context.Context, link string) error
}

// LogHandoff is the default handoff: the link travels back to the browsing
// context through the HTTP response, so initiating it here just records it.
type LogHandoff struct {
	Logger *logrus.Logger
}

func (h LogHandoff) Open(_ context.Context, link string) error {
	h.Logger.WithField("link", link).Info("messaging handoff initiated")
	return nil
}

// Options carry the message-composition knobs.
type Options struct {
	CountryCode     string
	TrackingBaseURL string
}

// Coordinator submits one cart's checkout. At most one submission is in
// flight at a time; the flag is exposed so the initiating control can be
// disabled, and a concurrent Submit is rejected locally.
type Coordinator struct {
	cart     CartStore
	orders   OrderAPI
	handoff  Handoff
	opts     Options
	logger   *logrus.Logger
	inFlight atomic.Bool
}

func New(cartStore CartStore, orderAPI OrderAPI, handoff Handoff, opts Options, logger *logrus.Logger) *Coordinator {
	if opts.CountryCode == "" {
		opts.CountryCode = "55"
	}
	return &Coordinator{
		cart:    cartStore,
		orders:  orderAPI,
		handoff: handoff,
		opts:    opts,
		logger:  logger,
	}
}

// InFlight reports whether a submission is pending.
func (c *Coordinator) InFlight() bool {
	return c.inFlight.Load()
}

// Result is a successful checkout: the created order plus the prefilled
// messaging link.
type Result struct {
	OrderToken string
	Reference  string
	Total      string
	Message    string
	Link       string
}

// Submit validates locally, creates the order, initiates the messaging
// handoff and clears the cart. Every failure path leaves the cart unmodified.
func (c *Coordinator) Submit(ctx context.Context, title, merchantPhone string) (*Result, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrCheckoutInFlight
	}
	defer c.inFlight.Store(false)

	items := c.cart.Items()
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if SanitizePhone(merchantPhone, c.opts.CountryCode) == "" {
		return nil, domain.ErrMissingContact
	}

	request := domain.OrderRequest{Items: make([]domain.OrderItem, 0, len(items))}
	for _, item := range items {
		request.Items = append(request.Items, domain.OrderItem{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}

	result, err := c.orders.Create(ctx, request)
	if err != nil {
		var conflict *domain.StockConflictError
		if errors.As(err, &conflict) {
			c.logger.WithField("reason", conflict.Message).Info("checkout rejected by stock conflict")
		}
		return nil, err
	}

	message := ComposeMessage(title, items, *result, c.opts.TrackingBaseURL)
	link := WhatsAppLink(merchantPhone, c.opts.CountryCode, message)

	if err := c.handoff.Open(ctx, link); err != nil {
		c.logger.WithError(err).WithField("order_token", result.OrderToken).Warn("messaging handoff failed, cart preserved")
		return nil, fmt.Errorf("initiate messaging handoff: %w", err)
	}

	if err := c.cart.Clear(ctx); err != nil {
		c.logger.WithError(err).Warn("clear cart after checkout failed")
	}

	c.logger.WithFields(logrus.Fields{
		"order_token": result.OrderToken,
		"items":       len(items),
	}).Info("checkout completed")

	return &Result{
		OrderToken: result.OrderToken,
		Reference:  OrderReference(result.OrderToken),
		Total:      FormatPrice(result.Total),
		Message:    message,
		Link:       link,
	}, nil
}
