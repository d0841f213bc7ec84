package cart

import (
	"encoding/json"

	"vitrine-storefront/internal/domain"
)

// Serialized slot form: a JSON mapping of cart key to quantity and size. The
// product id is recovered from the key on decode, so the payload round-trips
// exactly.
type slotEntry struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
}

func encodeState(state map[domain.CartKey]domain.CartEntry) ([]byte, error) {
	out := make(map[domain.CartKey]slotEntry, len(state))
	for key, entry := range state {
		out[key] = slotEntry{Quantity: entry.Quantity, Size: entry.Size}
	}
	return json.Marshal(out)
}

// decodeState rebuilds cart state from a slot payload. Entries with
// unparsable keys or non-positive quantities are skipped; a payload that is
// not valid JSON fails as a whole and the caller starts empty.
func decodeState(payload []byte) (map[domain.CartKey]domain.CartEntry, error) {
	var raw map[domain.CartKey]slotEntry
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	state := make(map[domain.CartKey]domain.CartEntry, len(raw))
	for key, stored := range raw {
		if stored.Quantity < 1 {
			continue
		}
		productID, size, err := domain.ParseKey(key)
		if err != nil {
			continue
		}
		if stored.Size != "" {
			size = stored.Size
		}
		state[key] = domain.CartEntry{
			Key:       key,
			ProductID: productID,
			Size:      size,
			Quantity:  stored.Quantity,
		}
	}
	return state, nil
}
