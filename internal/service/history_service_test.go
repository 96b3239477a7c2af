package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"companion-chat-be/internal/dto"
	"companion-chat-be/internal/entity"
	"companion-chat-be/internal/pkg/serverutils"
	"companion-chat-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
)

type fakeSessionRepo struct {
	upserted  []*entity.ChatSession
	upsertErr error
	findOne   *entity.ChatSession
	findAll   []*entity.ChatSession
}

func (f *fakeSessionRepo) Upsert(_ context.Context, s *entity.ChatSession) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, s)
	return nil
}

func (f *fakeSessionRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ChatSession, error) {
	return f.findOne, nil
}

func (f *fakeSessionRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatSession, error) {
	return f.findAll, nil
}

func (f *fakeSessionRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(f.findAll)), nil
}

type fakeMessageRepo struct {
	created []*entity.ChatMessage
	findAll []*entity.ChatMessage
}

func (f *fakeMessageRepo) CreateBatch(_ context.Context, messages []*entity.ChatMessage) error {
	f.created = append(f.created, messages...)
	return nil
}

func (f *fakeMessageRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatMessage, error) {
	return f.findAll, nil
}

func (f *fakeMessageRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(f.findAll)), nil
}

func TestHistoryService_RecordExchange(t *testing.T) {
	sessions := &fakeSessionRepo{}
	messages := &fakeMessageRepo{}
	svc := NewHistoryService(sessions, messages)

	err := svc.RecordExchange(context.Background(), "user-1", "sess-1", "hi", "hello!", "gemini-2.0-flash", "model")
	assert.NoError(t, err)

	assert.Len(t, sessions.upserted, 1)
	assert.Equal(t, "sess-1", sessions.upserted[0].Id)
	assert.Equal(t, "user-1", sessions.upserted[0].UserId)

	assert.Len(t, messages.created, 2)
	prompt, reply := messages.created[0], messages.created[1]
	assert.Equal(t, "hi", prompt.Content)
	assert.Equal(t, entity.MessageRoleUser, prompt.Role())
	assert.Equal(t, "hello!", reply.Content)
	assert.Equal(t, entity.MessageRoleAssistant, reply.Role())
	assert.Equal(t, "gemini-2.0-flash", reply.Metadata["model"])
	assert.Equal(t, "model", reply.Metadata["source"])
	assert.NotEqual(t, prompt.Id, reply.Id)
	// The reply timestamps strictly after the prompt.
	assert.True(t, reply.CreatedAt.After(prompt.CreatedAt))
}

func TestHistoryService_RecordExchangePropagatesUpsertError(t *testing.T) {
	sessions := &fakeSessionRepo{upsertErr: errors.New("connection refused")}
	messages := &fakeMessageRepo{}
	svc := NewHistoryService(sessions, messages)

	err := svc.RecordExchange(context.Background(), "user-1", "sess-1", "hi", "hello!", "m", "model")
	assert.Error(t, err)
	assert.Empty(t, messages.created)
}

func TestHistoryService_SaveHistory(t *testing.T) {
	sessions := &fakeSessionRepo{}
	messages := &fakeMessageRepo{}
	svc := NewHistoryService(sessions, messages)

	err := svc.SaveHistory(context.Background(), "user-1", &dto.SaveHistoryRequest{
		SessionId: "sess-1",
		Messages: []dto.HistoryMessage{
			{Text: "ignored", Content: "first", Role: "user"},
			{Text: "second", Role: "assistant"},
		},
	})
	assert.NoError(t, err)

	assert.Len(t, messages.created, 2)
	// `content` wins when both are present; `text` is the fallback key.
	assert.Equal(t, "first", messages.created[0].Content)
	assert.Equal(t, "second", messages.created[1].Content)
	assert.Equal(t, "client", messages.created[0].Metadata["source"])
	assert.Equal(t, "user", messages.created[0].Role())
	assert.Equal(t, "assistant", messages.created[1].Role())
	assert.True(t, messages.created[1].CreatedAt.After(messages.created[0].CreatedAt))
}

func TestHistoryService_SaveHistoryRejectsEmptyBody(t *testing.T) {
	svc := NewHistoryService(&fakeSessionRepo{}, &fakeMessageRepo{})

	err := svc.SaveHistory(context.Background(), "user-1", &dto.SaveHistoryRequest{
		SessionId: "sess-1",
		Messages:  []dto.HistoryMessage{{Role: "user"}},
	})
	httpErr, ok := err.(*serverutils.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, 400, httpErr.Status)
}

func TestHistoryService_ListSessions(t *testing.T) {
	now := time.Now()
	sessions := &fakeSessionRepo{findAll: []*entity.ChatSession{
		{Id: "sess-2", UserId: "user-1", CreatedAt: now},
		{Id: "sess-1", UserId: "user-1", CreatedAt: now.Add(-time.Hour)},
	}}
	svc := NewHistoryService(sessions, &fakeMessageRepo{})

	res, err := svc.ListSessions(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, res.Sessions, 2)
	assert.Equal(t, "sess-2", res.Sessions[0].Id)
}

func TestHistoryService_GetSession(t *testing.T) {
	now := time.Now()
	sessions := &fakeSessionRepo{findOne: &entity.ChatSession{Id: "sess-1", UserId: "user-1", CreatedAt: now}}
	messages := &fakeMessageRepo{findAll: []*entity.ChatMessage{
		{ChatSessionId: "sess-1", Content: "hi", Metadata: map[string]interface{}{"role": "user"}, CreatedAt: now},
	}}
	svc := NewHistoryService(sessions, messages)

	detail, err := svc.GetSession(context.Background(), "user-1", "sess-1", false)
	assert.NoError(t, err)
	assert.Equal(t, "sess-1", detail.Session.Id)
	assert.Empty(t, detail.Messages)

	detail, err = svc.GetSession(context.Background(), "user-1", "sess-1", true)
	assert.NoError(t, err)
	assert.Len(t, detail.Messages, 1)
	assert.Equal(t, "user", detail.Messages[0].Role)
	assert.Equal(t, "hi", detail.Messages[0].Content)
}

func TestHistoryService_GetSessionNotFound(t *testing.T) {
	svc := NewHistoryService(&fakeSessionRepo{}, &fakeMessageRepo{})

	_, err := svc.GetSession(context.Background(), "user-1", "someone-elses-session", true)
	httpErr, ok := err.(*serverutils.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, 404, httpErr.Status)
	assert.Equal(t, "session not found", httpErr.Message)
}
