package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/askql-io/askql-engine/pkg/models"
	"github.com/askql-io/askql-engine/pkg/repositories"
)

// AuditService records every request/response pair and every executed
// query. The Record methods are fire-and-forget from the pipeline's
// perspective: a failure to write an audit record is logged locally and
// never propagated to fail the operation it is auditing - audit logging
// is observability, not a transactional participant in the request.
type AuditService interface {
	// RecordMessage appends one side of a chat exchange to the message log.
	RecordMessage(ctx context.Context, username, role, content string, generatedSQL *string)

	// RecordQuery appends one execution attempt to the query log.
	RecordQuery(ctx context.Context, username, sqlText, status string, elapsedMs, rowsAffected *int, errorMessage *string)

	// ChatHistory returns the caller's message log, newest first.
	ChatHistory(ctx context.Context, username string, limit int) ([]*models.ChatMessage, error)

	// QueryHistory returns the caller's query log, newest first.
	QueryHistory(ctx context.Context, username string, limit int) ([]*models.QueryLogEntry, error)
}

type auditService struct {
	messages repositories.ChatMessageRepository
	queries  repositories.QueryLogRepository
	logger   *zap.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(
	messages repositories.ChatMessageRepository,
	queries repositories.QueryLogRepository,
	logger *zap.Logger,
) AuditService {
	return &auditService{
		messages: messages,
		queries:  queries,
		logger:   logger.Named("audit-service"),
	}
}

var _ AuditService = (*auditService)(nil)

func (s *auditService) RecordMessage(ctx context.Context, username, role, content string, generatedSQL *string) {
	message := &models.ChatMessage{
		Username:     username,
		Role:         role,
		Content:      content,
		GeneratedSQL: generatedSQL,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		s.logger.Error("Failed to record chat message",
			zap.String("username", username),
			zap.String("role", role),
			zap.Error(err))
	}
}

func (s *auditService) RecordQuery(ctx context.Context, username, sqlText, status string, elapsedMs, rowsAffected *int, errorMessage *string) {
	entry := &models.QueryLogEntry{
		Username:     username,
		SQL:          sqlText,
		Status:       status,
		ElapsedMs:    elapsedMs,
		RowsAffected: rowsAffected,
		ErrorMessage: errorMessage,
	}

	if err := s.queries.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record query log entry",
			zap.String("username", username),
			zap.String("status", status),
			zap.Error(err))
	}
}

func (s *auditService) ChatHistory(ctx context.Context, username string, limit int) ([]*models.ChatMessage, error) {
	messages, err := s.messages.ListByUser(ctx, username, limit)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	return messages, nil
}

func (s *auditService) QueryHistory(ctx context.Context, username string, limit int) ([]*models.QueryLogEntry, error) {
	entries, err := s.queries.ListByUser(ctx, username, limit)
	if err != nil {
		return nil, fmt.Errorf("get query history: %w", err)
	}
	return entries, nil
}
