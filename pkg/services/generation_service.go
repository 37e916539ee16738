package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askql-io/askql-engine/pkg/apperrors"
	"github.com/askql-io/askql-engine/pkg/llm"
	"github.com/askql-io/askql-engine/pkg/models"
	"github.com/askql-io/askql-engine/pkg/repositories"
	"github.com/askql-io/askql-engine/pkg/sql"
)

// Fixed assistant explanations recorded on each rejection path, so a human
// reviewing the chat history sees why a request was refused.
const (
	noSchemaMessage = "Please contact your administrator to upload a database schema before using the chat. " +
		"You need a schema to generate SQL queries."
	outOfSchemaMessage = "Your query does not match any tables in your database schema. " +
		"Please ask about specific tables or columns."
	notReadOnlyMessage = "Generated SQL is not a SELECT. For safety only SELECT queries are allowed."
	notGroundedMessage = "The prompt did not reference your database schema. " +
		"Please ask a question that mentions your tables/columns."

	generatedExplain = "SQL generated based on your database schema"
)

// GeneratedQuery is the successful outcome of one generation request.
type GeneratedQuery struct {
	SQL     string `json:"sql"`
	Explain string `json:"explain"`
}

// GenerationService runs the natural-language-to-SQL pipeline: prompt
// construction, backend call, safety validation, usage attribution and
// audit logging.
type GenerationService interface {
	GenerateSQL(ctx context.Context, username, prompt, schemaText string) (*GeneratedQuery, error)
}

type generationService struct {
	generator llm.SQLGenerator
	audit     AuditService
	usage     repositories.ColumnUsageRepository
	logger    *zap.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	generator llm.SQLGenerator,
	audit AuditService,
	usage repositories.ColumnUsageRepository,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		generator: generator,
		audit:     audit,
		usage:     usage,
		logger:    logger.Named("generation-service"),
	}
}

var _ GenerationService = (*generationService)(nil)

// GenerateSQL turns a natural-language prompt into a validated, read-only,
// schema-grounded SELECT. Every path - success or rejection - leaves an
// audit trail for the caller's chat history.
func (s *generationService) GenerateSQL(ctx context.Context, username, prompt, schemaText string) (*GeneratedQuery, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt must not be empty")
	}

	// Reject before spending a backend call on an unsatisfiable request.
	if strings.TrimSpace(schemaText) == "" {
		s.audit.RecordMessage(ctx, username, models.RoleUser, prompt, nil)
		s.audit.RecordMessage(ctx, username, models.RoleAssistant, noSchemaMessage, nil)
		return nil, apperrors.ErrNoSchemaConfigured
	}

	s.audit.RecordMessage(ctx, username, models.RoleUser, prompt, nil)

	result := s.generator.GenerateSQL(ctx, prompt, schemaText)
	switch result.Outcome {
	case llm.OutcomeBackendError:
		// User prompt stays logged with no assistant answer.
		s.logger.Error("generation backend failed",
			zap.String("username", username),
			zap.Bool("retryable", llm.IsRetryable(result.Err)),
			zap.Error(result.Err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBackendUnavailable, result.Err)
	case llm.OutcomeRefused:
		s.audit.RecordMessage(ctx, username, models.RoleAssistant, outOfSchemaMessage, nil)
		return nil, apperrors.ErrOutOfSchema
	}

	verdict := sql.Validate(result.SQL, schemaText)
	if !verdict.ReadOnly {
		s.audit.RecordMessage(ctx, username, models.RoleAssistant, notReadOnlyMessage, nil)
		return nil, apperrors.ErrNotReadOnly
	}
	if !verdict.ReferencesSchema {
		s.audit.RecordMessage(ctx, username, models.RoleAssistant, notGroundedMessage, nil)
		return nil, apperrors.ErrSchemaNotGrounded
	}

	generatedSQL := result.SQL
	s.audit.RecordMessage(ctx, username, models.RoleAssistant,
		fmt.Sprintf("Here is a proposed SQL query: %s", generatedSQL), &generatedSQL)

	// Column usage is best-effort telemetry, never a correctness gate.
	if columns := sql.ExtractColumns(generatedSQL); len(columns) > 0 {
		if err := s.usage.IncrementAll(ctx, username, columns); err != nil {
			s.logger.Warn("failed to increment column usage",
				zap.String("username", username),
				zap.Error(err))
		}
	}

	return &GeneratedQuery{SQL: generatedSQL, Explain: generatedExplain}, nil
}
