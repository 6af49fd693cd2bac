package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"axon-assistant/internal/entity"
	"axon-assistant/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	historyKey        = "axon:history"
	sessionHistoryKey = "axon:history:"
	defaultHistoryCap = 500
)

type interactionRecord struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Utterance string    `json:"utterance"`
	Reply     string    `json:"reply"`
	Intent    string    `json:"intent"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// InteractionRepository keeps capped, newest-first redis lists: one global
// and one per conversation.
type InteractionRepository struct {
	rdb      *redis.Client
	capacity int64
}

var _ contract.InteractionRepository = &InteractionRepository{}

func NewInteractionRepository(rdb *redis.Client, capacity int) *InteractionRepository {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &InteractionRepository{rdb: rdb, capacity: int64(capacity)}
}

func (r *InteractionRepository) Create(ctx context.Context, interaction *entity.Interaction) error {
	if interaction.Id == uuid.Nil {
		interaction.Id = uuid.New()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}
	data, err := json.Marshal(interactionRecord(*interaction))
	if err != nil {
		return err
	}

	perSession := sessionHistoryKey + interaction.SessionId.String()
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, r.capacity-1)
	pipe.LPush(ctx, perSession, data)
	pipe.LTrim(ctx, perSession, 0, r.capacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis history push: %w", err)
	}
	return nil
}

func (r *InteractionRepository) FindRecent(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.Interaction, error) {
	key := historyKey
	if sessionId != uuid.Nil {
		key = sessionHistoryKey + sessionId.String()
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	rows, err := r.rdb.LRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis history range: %w", err)
	}

	out := make([]*entity.Interaction, 0, len(rows))
	for _, row := range rows {
		var rec interactionRecord
		if err := json.Unmarshal([]byte(row), &rec); err != nil {
			continue
		}
		e := entity.Interaction(rec)
		out = append(out, &e)
	}
	return out, nil
}
