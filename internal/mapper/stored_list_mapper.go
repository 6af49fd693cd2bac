package mapper

import (
	"encoding/json"

	"axon-assistant/internal/model"

	"gorm.io/datatypes"
)

type StoredListMapper struct{}

func NewStoredListMapper() *StoredListMapper {
	return &StoredListMapper{}
}

// ToRaw returns the stored JSON array, "[]" for a missing row.
func (m *StoredListMapper) ToRaw(l *model.StoredList) json.RawMessage {
	if l == nil || len(l.Items) == 0 {
		return json.RawMessage("[]")
	}
	return json.RawMessage(l.Items)
}

// ToSingletonModel wraps one JSON item as a one-element list row.
func (m *StoredListMapper) ToSingletonModel(key string, item json.RawMessage) *model.StoredList {
	raw := make([]byte, 0, len(item)+2)
	raw = append(raw, '[')
	raw = append(raw, item...)
	raw = append(raw, ']')
	return &model.StoredList{
		Key:   key,
		Items: datatypes.JSON(raw),
	}
}
