package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionId string `json:"sessionId"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	Model     string `json:"model"`
	Source    string `json:"source"` // "model" | "fallback"
	SessionId string `json:"sessionId"`
}

// HistoryMessage accepts both `text` and `content` for the body; the
// frontend has shipped both over time.
type HistoryMessage struct {
	Text    string `json:"text"`
	Content string `json:"content"`
	Role    string `json:"role" validate:"required,oneof=user assistant"`
}

func (m HistoryMessage) Body() string {
	if m.Content != "" {
		return m.Content
	}
	return m.Text
}

type SaveHistoryRequest struct {
	SessionId string           `json:"sessionId" validate:"required"`
	Messages  []HistoryMessage `json:"messages" validate:"required,min=1,dive"`
}

type SessionSummary struct {
	Id        string                 `json:"id"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt *time.Time             `json:"updatedAt,omitempty"`
}

type MessageView struct {
	Id        uuid.UUID              `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type SessionDetailResponse struct {
	Session  SessionSummary `json:"session"`
	Messages []MessageView  `json:"messages,omitempty"`
}
