package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/askql-io/askql-engine/pkg/apperrors"
	"github.com/askql-io/askql-engine/pkg/logging"
	"github.com/askql-io/askql-engine/pkg/models"
	"github.com/askql-io/askql-engine/pkg/sql"
)

// RowQuerier is the slice of the connection pool the execution service
// needs. *database.DB satisfies it.
type RowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ExecutionService runs validated SQL against the live database. It is
// the last line of defense: the read-only check is re-run here
// independently of any verdict from generation time.
type ExecutionService interface {
	RunQuery(ctx context.Context, username, sqlText string, limit *int, params map[string]any) ([]map[string]any, error)
}

type executionService struct {
	db     RowQuerier
	audit  AuditService
	logger *zap.Logger
}

// NewExecutionService creates a new ExecutionService.
func NewExecutionService(db RowQuerier, audit AuditService, logger *zap.Logger) ExecutionService {
	return &executionService{
		db:     db,
		audit:  audit,
		logger: logger.Named("execution-service"),
	}
}

var _ ExecutionService = (*executionService)(nil)

// RunQuery guards, binds and executes one statement, logging the attempt
// to the query audit trail whatever the outcome.
func (s *executionService) RunQuery(ctx context.Context, username, sqlText string, limit *int, params map[string]any) ([]map[string]any, error) {
	prepared, err := sql.PrepareForExecution(sqlText, limit)
	if err != nil {
		s.recordFailure(ctx, username, sqlText, nil, rejectionMessage(err))
		return nil, err
	}

	var args []any
	if len(params) > 0 {
		if problems := sql.FindParametersInStringLiterals(prepared); len(problems) > 0 {
			err := fmt.Errorf("parameters inside string literals cannot be bound: %v", problems)
			s.recordFailure(ctx, username, sqlText, nil, err.Error())
			return nil, err
		}

		if failures := sql.CheckAllParameters(params); len(failures) > 0 {
			err := fmt.Errorf("parameter %q failed injection screening (fingerprint %s)",
				failures[0].ParamName, failures[0].Fingerprint)
			s.recordFailure(ctx, username, sqlText, nil, err.Error())
			return nil, err
		}

		prepared, args, err = sql.SubstituteParameters(prepared, params)
		if err != nil {
			s.recordFailure(ctx, username, sqlText, nil, err.Error())
			return nil, err
		}
	}

	start := time.Now()

	rows, err := s.db.Query(ctx, prepared, args...)
	if err != nil {
		elapsed := elapsedMs(start)
		s.recordFailure(ctx, username, prepared, &elapsed, err.Error())
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExecutionFailed, err)
	}
	defer rows.Close()

	results, err := collectRows(rows)
	if err != nil {
		elapsed := elapsedMs(start)
		s.recordFailure(ctx, username, prepared, &elapsed, err.Error())
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExecutionFailed, err)
	}

	elapsed := elapsedMs(start)
	rowCount := len(results)
	s.audit.RecordQuery(ctx, username, prepared, models.QueryStatusOK, &elapsed, &rowCount, nil)

	s.logger.Debug("query executed",
		zap.String("username", username),
		zap.String("sql", logging.SanitizeQuery(prepared)),
		zap.Int("rows", rowCount),
		zap.Int("elapsed_ms", elapsed))

	return results, nil
}

func (s *executionService) recordFailure(ctx context.Context, username, sqlText string, elapsed *int, message string) {
	s.audit.RecordQuery(ctx, username, sqlText, models.QueryStatusError, elapsed, nil, &message)
}

// rejectionMessage maps guard errors to the fixed audit messages.
func rejectionMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, apperrors.ErrNotReadOnly):
		return "Non-SELECT query rejected"
	case errors.Is(err, sql.ErrMultipleStatements):
		return "Multiple SQL statements rejected"
	default:
		return err.Error()
	}
}

// collectRows drains a result set into row maps keyed by column name.
func collectRows(rows pgx.Rows) ([]map[string]any, error) {
	fields := rows.FieldDescriptions()
	results := make([]map[string]any, 0)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return results, nil
}

func elapsedMs(start time.Time) int {
	return int(time.Since(start).Milliseconds())
}
