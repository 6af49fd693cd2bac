package mapper

import (
	"axon-assistant/internal/entity"
	"axon-assistant/internal/model"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) ToEntity(i *model.Interaction) *entity.Interaction {
	if i == nil {
		return nil
	}
	return &entity.Interaction{
		Id:        i.Id,
		SessionId: i.SessionId,
		Utterance: i.Utterance,
		Reply:     i.Reply,
		Intent:    i.Intent,
		Source:    i.Source,
		CreatedAt: i.CreatedAt,
	}
}

func (m *InteractionMapper) ToModel(i *entity.Interaction) *model.Interaction {
	if i == nil {
		return nil
	}
	return &model.Interaction{
		Id:        i.Id,
		SessionId: i.SessionId,
		Utterance: i.Utterance,
		Reply:     i.Reply,
		Intent:    i.Intent,
		Source:    i.Source,
		CreatedAt: i.CreatedAt,
	}
}

func (m *InteractionMapper) ToEntities(items []*model.Interaction) []*entity.Interaction {
	entities := make([]*entity.Interaction, len(items))
	for i, item := range items {
		entities[i] = m.ToEntity(item)
	}
	return entities
}
