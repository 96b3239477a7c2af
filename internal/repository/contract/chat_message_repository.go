package contract

import (
	"context"

	"companion-chat-be/internal/entity"
	"companion-chat-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	CreateBatch(ctx context.Context, messages []*entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
