package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles in the chat audit trail.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is an append-only audit record of one side of a
// request/response exchange. Records are never mutated; per-caller
// ordering is carried by CreatedAt.
type ChatMessage struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"` // "user" or "assistant"
	Content  string    `json:"content"`

	// GeneratedSQL is set on assistant records that carry a proposed query.
	GeneratedSQL *string `json:"generated_sql,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
