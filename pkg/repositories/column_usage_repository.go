package repositories

import (
	"context"
	"fmt"

	"github.com/askql-io/askql-engine/pkg/database"
	"github.com/askql-io/askql-engine/pkg/models"
)

// ColumnUsageRepository maintains the monotonic per-(username, column)
// usage counters.
type ColumnUsageRepository interface {
	// IncrementAll bumps the counter for each named column. The increment
	// is a read-modify-write on a per-key row and must be serialized at
	// the storage layer, not in process; the upsert below relies on the
	// database's atomic conflict handling so concurrent callers never
	// lose updates.
	IncrementAll(ctx context.Context, username string, columns []string) error

	// Summary returns all counters, most used first.
	Summary(ctx context.Context) ([]*models.ColumnUsage, error)
}

type columnUsageRepository struct {
	db *database.DB
}

func NewColumnUsageRepository(db *database.DB) ColumnUsageRepository {
	return &columnUsageRepository{db: db}
}

var _ ColumnUsageRepository = (*columnUsageRepository)(nil)

func (r *columnUsageRepository) IncrementAll(ctx context.Context, username string, columns []string) error {
	if len(columns) == 0 {
		return nil
	}

	query := `
		INSERT INTO column_usage (username, column_name, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (username, column_name)
		DO UPDATE SET count = column_usage.count + 1, updated_at = now()`

	for _, column := range columns {
		if _, err := r.db.Exec(ctx, query, username, column); err != nil {
			return fmt.Errorf("failed to increment column usage for %q: %w", column, err)
		}
	}

	return nil
}

func (r *columnUsageRepository) Summary(ctx context.Context) ([]*models.ColumnUsage, error) {
	query := `
		SELECT username, column_name, count, updated_at
		FROM column_usage
		ORDER BY count DESC, username, column_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column usage summary: %w", err)
	}
	defer rows.Close()

	var usage []*models.ColumnUsage
	for rows.Next() {
		var entry models.ColumnUsage
		if err := rows.Scan(&entry.Username, &entry.ColumnName, &entry.Count, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan column usage entry: %w", err)
		}
		usage = append(usage, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column usage entries: %w", err)
	}

	return usage, nil
}
