package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ChatSessionId string            `gorm:"type:text;not null;index"`
	UserId        string            `gorm:"type:text;not null;index"`
	Content       string            `gorm:"type:text;not null"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt     time.Time         `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
