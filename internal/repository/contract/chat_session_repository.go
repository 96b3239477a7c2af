package contract

import (
	"context"

	"companion-chat-be/internal/entity"
	"companion-chat-be/internal/repository/specification"
)

type ChatSessionRepository interface {
	// Upsert inserts the session or, when the id already exists, updates its
	// meta. Idempotent under repetition.
	Upsert(ctx context.Context, session *entity.ChatSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
