package services

import (
	"context"

	"github.com/askql-io/askql-engine/pkg/models"
)

// mockChatMessageRepo records appended messages in memory.
type mockChatMessageRepo struct {
	createErr error
	listErr   error
	messages  []*models.ChatMessage
}

func (m *mockChatMessageRepo) Create(_ context.Context, message *models.ChatMessage) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockChatMessageRepo) ListByUser(_ context.Context, username string, _ int) ([]*models.ChatMessage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.ChatMessage
	for _, msg := range m.messages {
		if msg.Username == username {
			out = append(out, msg)
		}
	}
	return out, nil
}

// mockQueryLogRepo records appended query log entries in memory.
type mockQueryLogRepo struct {
	createErr error
	listErr   error
	entries   []*models.QueryLogEntry
}

func (m *mockQueryLogRepo) Create(_ context.Context, entry *models.QueryLogEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockQueryLogRepo) ListByUser(_ context.Context, username string, _ int) ([]*models.QueryLogEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.QueryLogEntry
	for _, entry := range m.entries {
		if entry.Username == username {
			out = append(out, entry)
		}
	}
	return out, nil
}

// mockColumnUsageRepo counts increments per column.
type mockColumnUsageRepo struct {
	incrementErr error
	counts       map[string]int
}

func newMockColumnUsageRepo() *mockColumnUsageRepo {
	return &mockColumnUsageRepo{counts: make(map[string]int)}
}

func (m *mockColumnUsageRepo) IncrementAll(_ context.Context, _ string, columns []string) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	for _, column := range columns {
		m.counts[column]++
	}
	return nil
}

func (m *mockColumnUsageRepo) Summary(_ context.Context) ([]*models.ColumnUsage, error) {
	return nil, nil
}
