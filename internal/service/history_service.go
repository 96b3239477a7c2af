package service

import (
	"context"
	"time"

	"companion-chat-be/internal/dto"
	"companion-chat-be/internal/entity"
	"companion-chat-be/internal/pkg/serverutils"
	"companion-chat-be/internal/repository/contract"
	"companion-chat-be/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Sessions returned by a list call; older history stays reachable by id.
const sessionListLimit = 50

type IHistoryService interface {
	UpsertSession(ctx context.Context, sessionID, userID string, meta map[string]interface{}) error
	RecordExchange(ctx context.Context, userID, sessionID, prompt, reply, model, source string) error
	SaveHistory(ctx context.Context, userID string, req *dto.SaveHistoryRequest) error
	ListSessions(ctx context.Context, userID string) (*dto.SessionListResponse, error)
	GetSession(ctx context.Context, userID, sessionID string, includeMessages bool) (*dto.SessionDetailResponse, error)
}

type historyService struct {
	sessionRepo contract.ChatSessionRepository
	messageRepo contract.ChatMessageRepository
}

func NewHistoryService(sessionRepo contract.ChatSessionRepository, messageRepo contract.ChatMessageRepository) IHistoryService {
	return &historyService{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
	}
}

func (s *historyService) UpsertSession(ctx context.Context, sessionID, userID string, meta map[string]interface{}) error {
	return s.sessionRepo.Upsert(ctx, &entity.ChatSession{
		Id:     sessionID,
		UserId: userID,
		Meta:   meta,
	})
}

// RecordExchange persists one prompt/reply pair. Store errors propagate;
// the chat relay decides whether to swallow them.
func (s *historyService) RecordExchange(ctx context.Context, userID, sessionID, prompt, reply, model, source string) error {
	if err := s.UpsertSession(ctx, sessionID, userID, nil); err != nil {
		return err
	}

	now := time.Now()
	messages := []*entity.ChatMessage{
		{
			Id:            uuid.New(),
			ChatSessionId: sessionID,
			UserId:        userID,
			Content:       prompt,
			Metadata:      map[string]interface{}{"role": entity.MessageRoleUser},
			CreatedAt:     now,
		},
		{
			Id:            uuid.New(),
			ChatSessionId: sessionID,
			UserId:        userID,
			Content:       reply,
			Metadata: map[string]interface{}{
				"role":   entity.MessageRoleAssistant,
				"model":  model,
				"source": source,
			},
			// Strictly after the prompt so created_at ordering holds even
			// within one exchange.
			CreatedAt: now.Add(time.Millisecond),
		},
	}
	return s.messageRepo.CreateBatch(ctx, messages)
}

func (s *historyService) SaveHistory(ctx context.Context, userID string, req *dto.SaveHistoryRequest) error {
	if err := s.UpsertSession(ctx, req.SessionId, userID, nil); err != nil {
		return err
	}

	base := time.Now()
	messages := make([]*entity.ChatMessage, 0, len(req.Messages))
	for i, m := range req.Messages {
		body := m.Body()
		if body == "" {
			return serverutils.NewHTTPError(fiber.StatusBadRequest, "message content must not be empty")
		}
		messages = append(messages, &entity.ChatMessage{
			Id:            uuid.New(),
			ChatSessionId: req.SessionId,
			UserId:        userID,
			Content:       body,
			Metadata:      map[string]interface{}{"role": m.Role, "source": "client"},
			CreatedAt:     base.Add(time.Duration(i) * time.Millisecond),
		})
	}
	return s.messageRepo.CreateBatch(ctx, messages)
}

func (s *historyService) ListSessions(ctx context.Context, userID string) (*dto.SessionListResponse, error) {
	sessions, err := s.sessionRepo.FindAll(ctx,
		specification.OwnedBy{UserID: userID},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: sessionListLimit},
	)
	if err != nil {
		return nil, err
	}

	out := &dto.SessionListResponse{Sessions: make([]dto.SessionSummary, len(sessions))}
	for i, sess := range sessions {
		out.Sessions[i] = toSessionSummary(sess)
	}
	return out, nil
}

// GetSession is always scoped to the requesting user; a session id belonging
// to someone else behaves exactly like a missing one.
func (s *historyService) GetSession(ctx context.Context, userID, sessionID string, includeMessages bool) (*dto.SessionDetailResponse, error) {
	sess, err := s.sessionRepo.FindOne(ctx,
		specification.OwnedBy{UserID: userID},
		specification.ByID{ID: sessionID},
	)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, serverutils.NewHTTPError(fiber.StatusNotFound, "session not found")
	}

	out := &dto.SessionDetailResponse{Session: toSessionSummary(sess)}
	if !includeMessages {
		return out, nil
	}

	messages, err := s.messageRepo.FindAll(ctx,
		specification.OwnedBy{UserID: userID},
		specification.InSession{SessionID: sessionID},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	out.Messages = make([]dto.MessageView, len(messages))
	for i, m := range messages {
		out.Messages[i] = dto.MessageView{
			Id:        m.Id,
			Role:      m.Role(),
			Content:   m.Content,
			Metadata:  m.Metadata,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

func toSessionSummary(sess *entity.ChatSession) dto.SessionSummary {
	return dto.SessionSummary{
		Id:        sess.Id,
		Meta:      sess.Meta,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}
