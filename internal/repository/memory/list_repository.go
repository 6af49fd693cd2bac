package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"axon-assistant/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// ListRepository keeps lists for the lifetime of the process.
type ListRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

var _ contract.ListRepository = &ListRepository{}

func NewListRepository() *ListRepository {
	return &ListRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *ListRepository) Load(_ context.Context, key string) (json.RawMessage, error) {
	if x, found := r.cache.Get(key); found {
		items := x.([]json.RawMessage)
		return json.Marshal(items)
	}
	return json.RawMessage("[]"), nil
}

func (r *ListRepository) Prepend(_ context.Context, key string, item json.RawMessage) error {
	if !json.Valid(item) {
		return fmt.Errorf("prepend %s: invalid JSON item", key)
	}
	entry := make(json.RawMessage, len(item))
	copy(entry, item)

	r.mu.Lock()
	defer r.mu.Unlock()

	var items []json.RawMessage
	if x, found := r.cache.Get(key); found {
		items = x.([]json.RawMessage)
	}
	// a fresh slice; readers may still hold the previous one
	next := make([]json.RawMessage, 0, len(items)+1)
	next = append(next, entry)
	next = append(next, items...)
	r.cache.Set(key, next, cache.NoExpiration)
	return nil
}
