package models

import "time"

// ColumnUsage is a monotonically increasing counter keyed by
// (username, column). It is only ever incremented, never decremented;
// growth is bounded by the caller population times their schema's column
// vocabulary.
type ColumnUsage struct {
	Username   string    `json:"username"`
	ColumnName string    `json:"column"`
	Count      int64     `json:"count"`
	UpdatedAt  time.Time `json:"updated_at"`
}
