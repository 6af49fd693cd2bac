package model

import (
	"time"

	"gorm.io/datatypes"
)

type StoredList struct {
	Key       string         `gorm:"type:varchar(64);primaryKey"`
	Items     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (StoredList) TableName() string {
	return "stored_lists"
}
