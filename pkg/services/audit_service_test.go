package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askql-io/askql-engine/pkg/models"
)

func TestRecordMessage_SwallowsRepositoryError(t *testing.T) {
	messages := &mockChatMessageRepo{createErr: errors.New("insert failed")}
	audit := NewAuditService(messages, &mockQueryLogRepo{}, zap.NewNop())

	// Must not panic and must not surface the error anywhere.
	audit.RecordMessage(context.Background(), "alice", models.RoleUser, "hello", nil)
	assert.Empty(t, messages.messages)
}

func TestRecordQuery_SwallowsRepositoryError(t *testing.T) {
	queries := &mockQueryLogRepo{createErr: errors.New("insert failed")}
	audit := NewAuditService(&mockChatMessageRepo{}, queries, zap.NewNop())

	audit.RecordQuery(context.Background(), "alice", "SELECT 1", models.QueryStatusOK, nil, nil, nil)
	assert.Empty(t, queries.entries)
}

func TestChatHistory_ScopedToUser(t *testing.T) {
	messages := &mockChatMessageRepo{}
	audit := NewAuditService(messages, &mockQueryLogRepo{}, zap.NewNop())

	audit.RecordMessage(context.Background(), "alice", models.RoleUser, "show me cars", nil)
	audit.RecordMessage(context.Background(), "bob", models.RoleUser, "show me boats", nil)
	audit.RecordMessage(context.Background(), "alice", models.RoleAssistant, "here you go", nil)

	history, err := audit.ChatHistory(context.Background(), "alice", 50)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, msg := range history {
		assert.Equal(t, "alice", msg.Username)
	}
}

func TestChatHistory_PropagatesListError(t *testing.T) {
	messages := &mockChatMessageRepo{listErr: errors.New("db down")}
	audit := NewAuditService(messages, &mockQueryLogRepo{}, zap.NewNop())

	_, err := audit.ChatHistory(context.Background(), "alice", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat history")
}

func TestQueryHistory_ScopedToUser(t *testing.T) {
	queries := &mockQueryLogRepo{}
	audit := NewAuditService(&mockChatMessageRepo{}, queries, zap.NewNop())

	elapsed := 12
	audit.RecordQuery(context.Background(), "alice", "SELECT 1", models.QueryStatusOK, &elapsed, nil, nil)
	audit.RecordQuery(context.Background(), "bob", "SELECT 2", models.QueryStatusOK, &elapsed, nil, nil)

	history, err := audit.QueryHistory(context.Background(), "alice", 100)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "SELECT 1", history[0].SQL)
}
