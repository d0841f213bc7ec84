package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySeparator joins product id and size inside a CartKey. Product ids are
// strictly numeric, so parsing splits on the first separator and a size may
// itself contain the separator without ambiguity.
const KeySeparator = ":"

// CartKey uniquely identifies a purchasable unit: the product alone when it
// has no variant dimension, or product plus chosen size when it does. The key
// is the only join point between cart and catalog.
type CartKey string

// BuildKey constructs the key for a product/size pair.
func BuildKey(productID int64, size string) CartKey {
	if size == "" {
		return CartKey(strconv.FormatInt(productID, 10))
	}
	return CartKey(strconv.FormatInt(productID, 10) + KeySeparator + size)
}

// ParseKey recovers the product id and size from a key.
func ParseKey(key CartKey) (productID int64, size string, err error) {
	raw := string(key)
	idPart := raw
	if i := strings.Index(raw, KeySeparator); i >= 0 {
		idPart = raw[:i]
		size = raw[i+len(KeySeparator):]
	}
	productID, err = strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse cart key %q: %w", raw, err)
	}
	return productID, size, nil
}

// CartEntry is one purchasable unit held in a cart. Entries never carry a
// quantity below one; decrementing past one removes the entry instead.
type CartEntry struct {
	Key       CartKey
	ProductID int64
	Size      string
	Quantity  int
}
