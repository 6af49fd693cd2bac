package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"axon-assistant/internal/entity"
	"axon-assistant/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestInteractionMapper(t *testing.T) {
	m := NewInteractionMapper()
	e := &entity.Interaction{
		Id:        uuid.New(),
		SessionId: uuid.New(),
		Utterance: "who are you",
		Reply:     "I am AXON, your personal AI assistant.",
		Intent:    "fact",
		Source:    "local",
		CreatedAt: time.Now().UTC(),
	}
	assert.Equal(t, e, m.ToEntity(m.ToModel(e)))
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}

func TestStoredListMapper(t *testing.T) {
	m := NewStoredListMapper()
	assert.JSONEq(t, "[]", string(m.ToRaw(nil)))
	assert.JSONEq(t, "[]", string(m.ToRaw(&model.StoredList{Key: "axon_notes"})))

	l := m.ToSingletonModel("axon_notes", json.RawMessage(`{"text":"x","ts":1}`))
	assert.Equal(t, "axon_notes", l.Key)
	assert.JSONEq(t, `[{"text":"x","ts":1}]`, string(m.ToRaw(l)))
}
