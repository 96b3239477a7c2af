package model

import (
	"time"

	"gorm.io/datatypes"
)

type ChatSession struct {
	Id        string            `gorm:"type:text;primaryKey"`
	UserId    string            `gorm:"type:text;not null;index"` // User ownership for data isolation
	Meta      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
