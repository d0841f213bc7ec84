// Package storage persists one serialized cart per catalog share token under
// a namespaced slot. Adapters are interchangeable; the cart store treats every
// failure as non-fatal.
package storage

import "context"

// Slot is the persisted cart slot contract. Load reports ok=false when no
// payload exists for the token; callers treat unparsable payloads the same
// way, so adapters never inspect the bytes they carry.
type Slot interface {
	Load(ctx context.Context, token string) (payload []byte, ok bool, err error)
	Save(ctx context.Context, token string, payload []byte) error
}

func slotKey(token string) string {
	return "cart:" + token
}
