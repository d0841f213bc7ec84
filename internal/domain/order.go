package domain

import "github.com/shopspring/decimal"

// OrderRequest is the payload sent to the order-creation endpoint, one item
// per cart entry in snapshot order.
type OrderRequest struct {
	Items []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// OrderResult is the backend's answer to a successful order creation.
type OrderResult struct {
	OrderToken string          `json:"order_token"`
	Total      decimal.Decimal `json:"total"`
}
