package llm

import (
	"context"
)

// SQLGenerator defines the interface for SQL generation. Use it for
// dependency injection to enable mocking in tests.
type SQLGenerator interface {
	// GenerateSQL produces exactly one tagged outcome per call.
	GenerateSQL(ctx context.Context, prompt, schema string) GenerationResult

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure Client implements SQLGenerator at compile time.
var _ SQLGenerator = (*Client)(nil)
