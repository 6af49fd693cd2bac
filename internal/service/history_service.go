package service

import (
	"context"

	"axon-assistant/internal/dto"
	"axon-assistant/internal/repository/contract"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type IHistoryService interface {
	Recent(ctx context.Context, sessionId uuid.UUID, limit int) ([]dto.InteractionResponse, error)
}

type historyService struct {
	repo contract.InteractionRepository
}

func NewHistoryService(repo contract.InteractionRepository) IHistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) Recent(ctx context.Context, sessionId uuid.UUID, limit int) ([]dto.InteractionResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	items, err := s.repo.FindRecent(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	res := make([]dto.InteractionResponse, 0, len(items))
	for _, i := range items {
		res = append(res, dto.InteractionResponse{
			Id:        i.Id,
			SessionId: i.SessionId,
			Utterance: i.Utterance,
			Reply:     i.Reply,
			Intent:    i.Intent,
			Source:    i.Source,
			CreatedAt: i.CreatedAt,
		})
	}
	return res, nil
}
