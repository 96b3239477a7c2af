package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ChatSession is a durable conversation container. The id is a client-supplied
// or server-generated token; upserting the same id is idempotent.
type ChatSession struct {
	Id        string
	UserId    string
	Meta      map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ChatMessage is immutable once written. Role and provenance live in Metadata.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId string
	UserId        string
	Content       string
	Metadata      map[string]interface{}
	CreatedAt     time.Time
}

func (m *ChatMessage) Role() string {
	if m.Metadata == nil {
		return ""
	}
	role, _ := m.Metadata["role"].(string)
	return role
}
