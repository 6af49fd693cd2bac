package contract

import (
	"context"
	"encoding/json"
)

// ListRepository stores lists under a fixed key, as JSON arrays, most recent first.
type ListRepository interface {
	// Load returns "[]" for a key that was never written.
	Load(ctx context.Context, key string) (json.RawMessage, error)
	// Prepend puts item at the front of the list in one step, so concurrent
	// writers sharing the store never lose each other's items.
	Prepend(ctx context.Context, key string, item json.RawMessage) error
}
