package redisrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"axon-assistant/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const listKeyPrefix = "axon:list:"

// ListRepository keeps each list as a Redis list of JSON items so instances
// behind a load balancer share notes and todos. LPUSH keeps the newest first.
type ListRepository struct {
	rdb *redis.Client
}

var _ contract.ListRepository = &ListRepository{}

func NewListRepository(rdb *redis.Client) *ListRepository {
	return &ListRepository{rdb: rdb}
}

func (r *ListRepository) Load(ctx context.Context, key string) (json.RawMessage, error) {
	items, err := r.rdb.LRange(ctx, listKeyPrefix+key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", key, err)
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(item)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (r *ListRepository) Prepend(ctx context.Context, key string, item json.RawMessage) error {
	if !json.Valid(item) {
		return fmt.Errorf("redis lpush %s: invalid JSON item", key)
	}
	if err := r.rdb.LPush(ctx, listKeyPrefix+key, []byte(item)).Err(); err != nil {
		return fmt.Errorf("redis lpush %s: %w", key, err)
	}
	return nil
}
