package handlers

import (
	"context"

	"github.com/askql-io/askql-engine/pkg/models"
	"github.com/askql-io/askql-engine/pkg/services"
)

// mockGenerationService is a function-field mock for GenerationService.
type mockGenerationService struct {
	GenerateSQLFunc  func(ctx context.Context, username, prompt, schemaText string) (*services.GeneratedQuery, error)
	GenerateSQLCalls int
}

func (m *mockGenerationService) GenerateSQL(ctx context.Context, username, prompt, schemaText string) (*services.GeneratedQuery, error) {
	m.GenerateSQLCalls++
	if m.GenerateSQLFunc != nil {
		return m.GenerateSQLFunc(ctx, username, prompt, schemaText)
	}
	return &services.GeneratedQuery{SQL: "SELECT 1", Explain: "test"}, nil
}

var _ services.GenerationService = (*mockGenerationService)(nil)

// mockExecutionService is a function-field mock for ExecutionService.
type mockExecutionService struct {
	RunQueryFunc  func(ctx context.Context, username, sqlText string, limit *int, params map[string]any) ([]map[string]any, error)
	RunQueryCalls int
}

func (m *mockExecutionService) RunQuery(ctx context.Context, username, sqlText string, limit *int, params map[string]any) ([]map[string]any, error) {
	m.RunQueryCalls++
	if m.RunQueryFunc != nil {
		return m.RunQueryFunc(ctx, username, sqlText, limit, params)
	}
	return []map[string]any{}, nil
}

var _ services.ExecutionService = (*mockExecutionService)(nil)

// mockAuditService is a function-field mock for AuditService.
type mockAuditService struct {
	ChatHistoryFunc  func(ctx context.Context, username string, limit int) ([]*models.ChatMessage, error)
	QueryHistoryFunc func(ctx context.Context, username string, limit int) ([]*models.QueryLogEntry, error)
}

func (m *mockAuditService) RecordMessage(_ context.Context, _, _, _ string, _ *string) {}

func (m *mockAuditService) RecordQuery(_ context.Context, _, _, _ string, _, _ *int, _ *string) {}

func (m *mockAuditService) ChatHistory(ctx context.Context, username string, limit int) ([]*models.ChatMessage, error) {
	if m.ChatHistoryFunc != nil {
		return m.ChatHistoryFunc(ctx, username, limit)
	}
	return nil, nil
}

func (m *mockAuditService) QueryHistory(ctx context.Context, username string, limit int) ([]*models.QueryLogEntry, error) {
	if m.QueryHistoryFunc != nil {
		return m.QueryHistoryFunc(ctx, username, limit)
	}
	return nil, nil
}

var _ services.AuditService = (*mockAuditService)(nil)

// mockColumnUsageRepo is a function-field mock for ColumnUsageRepository.
type mockColumnUsageRepo struct {
	SummaryFunc func(ctx context.Context) ([]*models.ColumnUsage, error)
}

func (m *mockColumnUsageRepo) IncrementAll(_ context.Context, _ string, _ []string) error {
	return nil
}

func (m *mockColumnUsageRepo) Summary(ctx context.Context) ([]*models.ColumnUsage, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return nil, nil
}
