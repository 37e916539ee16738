package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/askql-io/askql-engine/pkg/database"
	"github.com/askql-io/askql-engine/pkg/models"
)

// QueryLogRepository provides append and retrieval for the query execution
// audit trail.
type QueryLogRepository interface {
	Create(ctx context.Context, entry *models.QueryLogEntry) error
	ListByUser(ctx context.Context, username string, limit int) ([]*models.QueryLogEntry, error)
}

type queryLogRepository struct {
	db *database.DB
}

func NewQueryLogRepository(db *database.DB) QueryLogRepository {
	return &queryLogRepository{db: db}
}

var _ QueryLogRepository = (*queryLogRepository)(nil)

func (r *queryLogRepository) Create(ctx context.Context, entry *models.QueryLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO query_logs (id, username, sql_query, status, elapsed_ms, rows_affected, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.Username,
		entry.SQL,
		entry.Status,
		entry.ElapsedMs,
		entry.RowsAffected,
		entry.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to create query log entry: %w", err)
	}

	return nil
}

func (r *queryLogRepository) ListByUser(ctx context.Context, username string, limit int) ([]*models.QueryLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, username, sql_query, status, elapsed_ms, rows_affected, error_message, created_at
		FROM query_logs
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list query log entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.QueryLogEntry
	for rows.Next() {
		var entry models.QueryLogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Username,
			&entry.SQL,
			&entry.Status,
			&entry.ElapsedMs,
			&entry.RowsAffected,
			&entry.ErrorMessage,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating query log entries: %w", err)
	}

	return entries, nil
}
