package memory

import (
	"context"
	"sync"

	"axon-assistant/internal/entity"
	"axon-assistant/internal/repository/contract"

	"github.com/google/uuid"
)

const defaultHistoryCap = 500

// InteractionRepository is a bounded in-memory history, oldest dropped first.
type InteractionRepository struct {
	mu    sync.RWMutex
	items []*entity.Interaction
	limit int
}

var _ contract.InteractionRepository = &InteractionRepository{}

func NewInteractionRepository(capacity int) *InteractionRepository {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &InteractionRepository{limit: capacity}
}

func (r *InteractionRepository) Create(_ context.Context, interaction *entity.Interaction) error {
	if interaction.Id == uuid.Nil {
		interaction.Id = uuid.New()
	}
	cp := *interaction

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, &cp)
	if len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
	return nil
}

func (r *InteractionRepository) FindRecent(_ context.Context, sessionId uuid.UUID, limit int) ([]*entity.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Interaction, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		item := r.items[i]
		if sessionId != uuid.Nil && item.SessionId != sessionId {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}
