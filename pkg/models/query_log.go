package models

import (
	"time"

	"github.com/google/uuid"
)

// Execution statuses recorded in the query log.
const (
	QueryStatusOK    = "ok"
	QueryStatusError = "error"
)

// QueryLogEntry is an append-only audit record of one query execution
// attempt, written independent of success or failure.
type QueryLogEntry struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	SQL      string    `json:"sql"`
	Status   string    `json:"status"` // "ok" or "error"

	ElapsedMs    *int    `json:"elapsed_ms,omitempty"`
	RowsAffected *int    `json:"rows_affected,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
