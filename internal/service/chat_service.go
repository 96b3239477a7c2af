package service

import (
	"context"
	"strings"

	"companion-chat-be/internal/constant"
	"companion-chat-be/internal/dto"
	"companion-chat-be/internal/entity"
	"companion-chat-be/internal/pkg/logger"
	"companion-chat-be/pkg/chatbot"

	"github.com/google/uuid"
)

type IChatService interface {
	Chat(ctx context.Context, ident *entity.Identity, req *dto.ChatRequest) *dto.ChatResponse
}

type chatService struct {
	bot     chatbot.IChatbot
	history IHistoryService
	log     logger.ILogger
}

func NewChatService(bot chatbot.IChatbot, history IHistoryService, log logger.ILogger) IChatService {
	return &chatService{
		bot:     bot,
		history: history,
		log:     log,
	}
}

// Chat relays the prompt to the inference backend and always produces a
// reply: a failed or unparsable model call degrades to the fixed fallback
// text, never to an error response. Caller guarantees a non-empty prompt and
// a valid identity.
func (s *chatService) Chat(ctx context.Context, ident *entity.Identity, req *dto.ChatRequest) *dto.ChatResponse {
	sessionID := req.SessionId
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	reply, source := s.generate(ctx, req.Prompt)

	// Best-effort: a store outage must not break the conversation.
	if err := s.history.RecordExchange(ctx, ident.UserID, sessionID, req.Prompt, reply, s.bot.Model(), source); err != nil {
		s.log.Error("chat", "failed to persist exchange", map[string]interface{}{
			"session_id": sessionID,
			"user_id":    ident.UserID,
			"error":      err.Error(),
		})
	}

	return &dto.ChatResponse{
		Reply:     reply,
		Model:     s.bot.Model(),
		Source:    source,
		SessionId: sessionID,
	}
}

func (s *chatService) generate(ctx context.Context, prompt string) (string, string) {
	raw, err := s.bot.GenerateReply(ctx, prompt)
	if err != nil {
		s.log.Warn("chat", "inference call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.FallbackReply, "fallback"
	}

	parsed := chatbot.ParseReply(raw)
	if !parsed.Parsed || strings.TrimSpace(parsed.Text) == "" {
		s.log.Warn("chat", "inference response not normalizable", map[string]interface{}{
			"shape": parsed.Shape,
		})
		return constant.FallbackReply, "fallback"
	}

	return strings.TrimSpace(parsed.Text), "model"
}
