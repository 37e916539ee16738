package llm

import (
	"context"
)

// MockSQLGenerator is a configurable mock for testing the generation
// pipeline. Set the function field to control behavior in tests.
type MockSQLGenerator struct {
	// GenerateSQLFunc is called when GenerateSQL is invoked.
	// If nil, the deterministic fallback statement is returned.
	GenerateSQLFunc func(ctx context.Context, prompt, schema string) GenerationResult

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Endpoint is returned by GetEndpoint. Defaults to "http://mock-endpoint".
	Endpoint string

	// Call tracking for verification
	GenerateSQLCalls int
}

// NewMockSQLGenerator creates a new mock with sensible defaults.
func NewMockSQLGenerator() *MockSQLGenerator {
	return &MockSQLGenerator{
		Model:    "mock-model",
		Endpoint: "http://mock-endpoint",
	}
}

// GenerateSQL implements SQLGenerator.
func (m *MockSQLGenerator) GenerateSQL(ctx context.Context, prompt, schema string) GenerationResult {
	m.GenerateSQLCalls++
	if m.GenerateSQLFunc != nil {
		return m.GenerateSQLFunc(ctx, prompt, schema)
	}
	return Generated(FallbackSQL)
}

// GetModel implements SQLGenerator.
func (m *MockSQLGenerator) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetEndpoint implements SQLGenerator.
func (m *MockSQLGenerator) GetEndpoint() string {
	if m.Endpoint == "" {
		return "http://mock-endpoint"
	}
	return m.Endpoint
}

// Ensure MockSQLGenerator implements SQLGenerator at compile time.
var _ SQLGenerator = (*MockSQLGenerator)(nil)
