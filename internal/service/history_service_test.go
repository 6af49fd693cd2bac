package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"axon-assistant/internal/dto"
	"axon-assistant/internal/entity"
	"axon-assistant/internal/pkg/logger"
	"axon-assistant/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_LimitsAndSession(t *testing.T) {
	repo := memory.NewInteractionRepository(10)
	svc := NewHistoryService(repo)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	for i, sid := range []uuid.UUID{a, b, a} {
		require.NoError(t, repo.Create(ctx, &entity.Interaction{
			SessionId: sid,
			Utterance: string(rune('x' + i)),
			CreatedAt: time.Now(),
		}))
	}

	all, err := svc.Recent(ctx, uuid.Nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "z", all[0].Utterance)

	onlyA, err := svc.Recent(ctx, a, 1)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, a, onlyA[0].SessionId)
	assert.Equal(t, "z", onlyA[0].Utterance)
}

func TestInteractionPipeline(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	repo := memory.NewInteractionRepository(10)
	consumer := NewConsumerService(pubSub, "AXON_INTERACTION", repo, logger.NewNopLogger()).(*consumerService)
	stored := make(chan *entity.Interaction, 2)
	consumer.onProcessed = func(i *entity.Interaction) { stored <- i }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("AXON_INTERACTION", pubSub)
	require.NoError(t, publisher.Publish(ctx, []byte("not json")))

	sid := uuid.New()
	raw, err := json.Marshal(dto.InteractionMessage{
		Id:        uuid.New(),
		SessionId: sid,
		Utterance: "who are you",
		Reply:     "I am AXON, your personal AI assistant.",
		Intent:    "fact",
		Source:    "local_facts",
		At:        time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, raw))

	select {
	case got := <-stored:
		assert.Equal(t, sid, got.SessionId)
		assert.Equal(t, "fact", got.Intent)
	case <-time.After(2 * time.Second):
		t.Fatal("interaction was not consumed")
	}

	history, err := NewHistoryService(repo).Recent(ctx, sid, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "who are you", history[0].Utterance)
}
