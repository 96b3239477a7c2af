package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"companion-chat-be/internal/constant"
	"companion-chat-be/internal/dto"
	"companion-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

type fakeBot struct {
	raw []byte
	err error
}

func (f *fakeBot) GenerateReply(_ context.Context, _ string) (json.RawMessage, error) {
	return f.raw, f.err
}

func (f *fakeBot) Model() string { return "gemini-2.0-flash" }

// recordingHistory captures RecordExchange calls and optionally fails them.
type recordingHistory struct {
	IHistoryService
	err      error
	prompts  []string
	replies  []string
	sessions []string
	sources  []string
}

func (r *recordingHistory) RecordExchange(_ context.Context, _, sessionID, prompt, reply, _, source string) error {
	r.sessions = append(r.sessions, sessionID)
	r.prompts = append(r.prompts, prompt)
	r.replies = append(r.replies, reply)
	r.sources = append(r.sources, source)
	return r.err
}

func testIdentity() *entity.Identity {
	return &entity.Identity{UserID: "user-1", Email: "a@example.com"}
}

func TestChatService_ModelReply(t *testing.T) {
	bot := &fakeBot{raw: []byte(`{"candidates":[{"content":{"parts":[{"text":"  hello!  "}]}}]}`)}
	history := &recordingHistory{}
	svc := NewChatService(bot, history, nopLogger{})

	res := svc.Chat(context.Background(), testIdentity(), &dto.ChatRequest{Prompt: "hi", SessionId: "sess-1"})
	assert.Equal(t, "hello!", res.Reply)
	assert.Equal(t, "model", res.Source)
	assert.Equal(t, "gemini-2.0-flash", res.Model)
	assert.Equal(t, "sess-1", res.SessionId)

	assert.Equal(t, []string{"sess-1"}, history.sessions)
	assert.Equal(t, []string{"hi"}, history.prompts)
	assert.Equal(t, []string{"hello!"}, history.replies)
}

func TestChatService_FallbackOnBotError(t *testing.T) {
	bot := &fakeBot{err: errors.New("upstream timeout")}
	history := &recordingHistory{}
	svc := NewChatService(bot, history, nopLogger{})

	res := svc.Chat(context.Background(), testIdentity(), &dto.ChatRequest{Prompt: "hi", SessionId: "sess-1"})
	assert.Equal(t, constant.FallbackReply, res.Reply)
	assert.Equal(t, "fallback", res.Source)

	// The fallback exchange is still recorded.
	assert.Equal(t, []string{"fallback"}, history.sources)
}

func TestChatService_FallbackOnUnparsableBody(t *testing.T) {
	bot := &fakeBot{raw: []byte(`{"usage":{"tokens":7}}`)}
	svc := NewChatService(bot, &recordingHistory{}, nopLogger{})

	res := svc.Chat(context.Background(), testIdentity(), &dto.ChatRequest{Prompt: "hi"})
	assert.Equal(t, constant.FallbackReply, res.Reply)
	assert.Equal(t, "fallback", res.Source)
}

func TestChatService_GeneratesDistinctSessionIds(t *testing.T) {
	bot := &fakeBot{raw: []byte(`{"reply":"ok"}`)}
	svc := NewChatService(bot, &recordingHistory{}, nopLogger{})

	first := svc.Chat(context.Background(), testIdentity(), &dto.ChatRequest{Prompt: "a"})
	second := svc.Chat(context.Background(), testIdentity(), &dto.ChatRequest{Prompt: "b"})

	assert.NotEmpty(t, first.SessionId)
	assert.NotEmpty(t, second.SessionId)
	assert.NotEqual(t, first.SessionId, second.SessionId)
}

func TestChatService_PersistenceFailureIsSwallowed(t *testing.T) {
	bot := &fakeBot{raw: []byte(`{"reply":"ok"}`)}
	history := &recordingHistory{err: errors.New("connection reset by peer")}
	svc := NewChatService(bot, history, nopLogger{})

	res := svc.Chat(context.Background(), testIdentity(), &dto.ChatRequest{Prompt: "hi", SessionId: "sess-1"})
	assert.Equal(t, "ok", res.Reply)
	assert.Equal(t, "model", res.Source)
}
