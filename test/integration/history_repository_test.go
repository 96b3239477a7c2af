package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"companion-chat-be/internal/entity"
	"companion-chat-be/internal/model"
	"companion-chat-be/internal/repository/implementation"
	"companion-chat-be/internal/repository/specification"
	"companion-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// Requires a reachable Postgres via DB_CONNECTION_STRING; skipped otherwise.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set; skipping integration test")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&model.ChatSession{}, &model.ChatMessage{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func TestChatSessionRepository_UpsertIsIdempotent(t *testing.T) {
	db := setupDB(t)
	repo := implementation.NewChatSessionRepository(db)
	ctx := context.Background()

	sessionID := fmt.Sprintf("it-sess-%s", uuid.New().String())
	userID := fmt.Sprintf("it-user-%s", uuid.New().String())
	t.Cleanup(func() {
		db.Where("id = ?", sessionID).Delete(&model.ChatSession{})
	})

	assert.NoError(t, repo.Upsert(ctx, &entity.ChatSession{Id: sessionID, UserId: userID}))
	assert.NoError(t, repo.Upsert(ctx, &entity.ChatSession{
		Id:     sessionID,
		UserId: userID,
		Meta:   map[string]interface{}{"title": "renamed"},
	}))

	count, err := repo.Count(ctx, specification.ByID{ID: sessionID})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	sess, err := repo.FindOne(ctx, specification.ByID{ID: sessionID})
	assert.NoError(t, err)
	assert.NotNil(t, sess)
	assert.Equal(t, "renamed", sess.Meta["title"])
}

func TestChatMessageRepository_OrderingAndScoping(t *testing.T) {
	db := setupDB(t)
	sessionRepo := implementation.NewChatSessionRepository(db)
	messageRepo := implementation.NewChatMessageRepository(db)
	ctx := context.Background()

	sessionID := fmt.Sprintf("it-sess-%s", uuid.New().String())
	owner := fmt.Sprintf("it-user-%s", uuid.New().String())
	stranger := fmt.Sprintf("it-user-%s", uuid.New().String())
	t.Cleanup(func() {
		db.Where("chat_session_id = ?", sessionID).Delete(&model.ChatMessage{})
		db.Where("id = ?", sessionID).Delete(&model.ChatSession{})
	})

	assert.NoError(t, sessionRepo.Upsert(ctx, &entity.ChatSession{Id: sessionID, UserId: owner}))

	now := time.Now()
	assert.NoError(t, messageRepo.CreateBatch(ctx, []*entity.ChatMessage{
		{
			Id:            uuid.New(),
			ChatSessionId: sessionID,
			UserId:        owner,
			Content:       "hi",
			Metadata:      map[string]interface{}{"role": entity.MessageRoleUser},
			CreatedAt:     now,
		},
		{
			Id:            uuid.New(),
			ChatSessionId: sessionID,
			UserId:        owner,
			Content:       "hello!",
			Metadata:      map[string]interface{}{"role": entity.MessageRoleAssistant},
			CreatedAt:     now.Add(time.Millisecond),
		},
	}))

	messages, err := messageRepo.FindAll(ctx,
		specification.OwnedBy{UserID: owner},
		specification.InSession{SessionID: sessionID},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	assert.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, "hi", messages[0].Content)
	assert.Equal(t, entity.MessageRoleUser, messages[0].Role())
	assert.Equal(t, "hello!", messages[1].Content)

	// Another user sees nothing in this session.
	strangers, err := messageRepo.FindAll(ctx,
		specification.OwnedBy{UserID: stranger},
		specification.InSession{SessionID: sessionID},
	)
	assert.NoError(t, err)
	assert.Empty(t, strangers)

	strangerSession, err := sessionRepo.FindOne(ctx,
		specification.OwnedBy{UserID: stranger},
		specification.ByID{ID: sessionID},
	)
	assert.NoError(t, err)
	assert.Nil(t, strangerSession)
}
