package service

import (
	"context"
	"encoding/json"

	"axon-assistant/internal/dto"
	"axon-assistant/internal/entity"
	"axon-assistant/internal/pkg/logger"
	"axon-assistant/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService stores interactions published on the history topic.
type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	history     contract.InteractionRepository
	logger      logger.ILogger
	onProcessed func(*entity.Interaction)
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	history contract.InteractionRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		history:    history,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.InteractionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal interaction", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	interaction := &entity.Interaction{
		Id:        payload.Id,
		SessionId: payload.SessionId,
		Utterance: payload.Utterance,
		Reply:     payload.Reply,
		Intent:    payload.Intent,
		Source:    payload.Source,
		CreatedAt: payload.At,
	}
	if err := cs.history.Create(ctx, interaction); err != nil {
		cs.logger.Error("ConsumerService", "Failed to store interaction", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		// history is best effort; a nack would redeliver in a tight loop on gochannel
		msg.Ack()
		return
	}

	msg.Ack()
	if cs.onProcessed != nil {
		cs.onProcessed(interaction)
	}
}
