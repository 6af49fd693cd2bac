package model

import (
	"time"

	"github.com/google/uuid"
)

type Interaction struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Utterance string    `gorm:"type:text;not null"`
	Reply     string    `gorm:"type:text;not null"`
	Intent    string    `gorm:"type:varchar(32);index"`
	Source    string    `gorm:"type:varchar(32)"`
	CreatedAt time.Time `gorm:"default:now();not null;index"`
}

func (Interaction) TableName() string {
	return "interactions"
}
