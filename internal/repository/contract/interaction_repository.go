package contract

import (
	"context"

	"axon-assistant/internal/entity"

	"github.com/google/uuid"
)

type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
	// FindRecent returns newest first. A nil session id matches every session.
	FindRecent(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.Interaction, error)
}
