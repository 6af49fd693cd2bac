package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"axon-assistant/internal/entity"
	"axon-assistant/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Expiry(t *testing.T) {
	repo := NewSessionRepository(50 * time.Millisecond)
	repo.Save(store.NewSession("s1", "paris", []string{"a", "b"}, time.Now(), repo.TTL()))

	s, ok := repo.Get("s1")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, s.Candidates)

	time.Sleep(120 * time.Millisecond)
	_, ok = repo.Get("s1")
	assert.False(t, ok)
}

func TestSessionRepository_ReplaceAndDelete(t *testing.T) {
	repo := NewSessionRepository(0)
	assert.Equal(t, DefaultSessionTTL, repo.TTL())

	repo.Save(store.NewSession("s1", "first", []string{"a"}, time.Now(), repo.TTL()))
	repo.Save(store.NewSession("s1", "second", []string{"b"}, time.Now(), repo.TTL()))

	s, ok := repo.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "second", s.LastQuery)

	repo.Delete("s1")
	_, ok = repo.Get("s1")
	assert.False(t, ok)
}

func TestListRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewListRepository()

	raw, err := repo.Load(ctx, entity.ListKeyNotes)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))

	require.NoError(t, repo.Prepend(ctx, entity.ListKeyNotes, json.RawMessage(`{"text":"buy milk","ts":1}`)))
	require.NoError(t, repo.Prepend(ctx, entity.ListKeyNotes, json.RawMessage(`{"text":"call mom","ts":2}`)))
	raw, err = repo.Load(ctx, entity.ListKeyNotes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"call mom","ts":2},{"text":"buy milk","ts":1}]`, string(raw))
	assert.Error(t, repo.Prepend(ctx, entity.ListKeyNotes, json.RawMessage(`{broken`)))

	raw, err = repo.Load(ctx, entity.ListKeyTodos)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestInteractionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInteractionRepository(3)
	a, b := uuid.New(), uuid.New()

	for i, sid := range []uuid.UUID{a, b, a, a} {
		require.NoError(t, repo.Create(ctx, &entity.Interaction{
			SessionId: sid,
			Utterance: string(rune('w' + i)),
		}))
	}

	all, err := repo.FindRecent(ctx, uuid.Nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "z", all[0].Utterance)
	assert.NotEqual(t, uuid.Nil, all[0].Id)

	onlyA, err := repo.FindRecent(ctx, a, 1)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "z", onlyA[0].Utterance)

	onlyB, err := repo.FindRecent(ctx, b, 10)
	require.NoError(t, err)
	require.Len(t, onlyB, 1)
	assert.Equal(t, "x", onlyB[0].Utterance)
}
