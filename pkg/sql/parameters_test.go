package sql

import (
	"reflect"
	"testing"
)

func TestExtractParameters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "two parameters",
			input:    "SELECT * FROM orders WHERE customer_id = {{customer_id}} AND total > {{min_total}}",
			expected: []string{"customer_id", "min_total"},
		},
		{
			name:     "repeated parameter deduplicated",
			input:    "SELECT * FROM transactions WHERE sender_id = {{user_id}} OR receiver_id = {{user_id}}",
			expected: []string{"user_id"},
		},
		{
			name:     "no parameters",
			input:    "SELECT 1",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractParameters(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSubstituteParameters(t *testing.T) {
	sqlQuery := "SELECT * FROM orders WHERE customer_id = {{customer_id}} AND total > {{min_total}}"
	values := map[string]any{"customer_id": "abc", "min_total": 100}

	prepared, ordered, err := SubstituteParameters(sqlQuery, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared != "SELECT * FROM orders WHERE customer_id = $1 AND total > $2" {
		t.Errorf("unexpected prepared SQL: %q", prepared)
	}
	if !reflect.DeepEqual(ordered, []any{"abc", 100}) {
		t.Errorf("unexpected ordered values: %v", ordered)
	}
}

func TestSubstituteParameters_ReusesPositionForRepeatedParam(t *testing.T) {
	sqlQuery := "SELECT * FROM t WHERE a = {{x}} OR b = {{x}}"
	prepared, ordered, err := SubstituteParameters(sqlQuery, map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared != "SELECT * FROM t WHERE a = $1 OR b = $1" {
		t.Errorf("unexpected prepared SQL: %q", prepared)
	}
	if len(ordered) != 1 {
		t.Errorf("expected single bound value, got %v", ordered)
	}
}

func TestSubstituteParameters_MissingValue(t *testing.T) {
	_, _, err := SubstituteParameters("SELECT * FROM t WHERE a = {{x}}", map[string]any{})
	if err == nil {
		t.Error("expected error for unsupplied parameter")
	}
}

func TestFindParametersInStringLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "parameter inside literal",
			input:    "SELECT 'Hello {{name}}' FROM users",
			expected: []string{"name"},
		},
		{
			name:     "parameter correctly placed",
			input:    "SELECT * FROM users WHERE name = {{name}}",
			expected: nil,
		},
		{
			name:     "escaped quote does not end the literal",
			input:    "SELECT 'it''s {{x}}' FROM t",
			expected: []string{"x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindParametersInStringLiterals(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCheckParameterForInjection(t *testing.T) {
	if result := CheckParameterForInjection("customer_id", "12345"); result != nil {
		t.Errorf("expected clean value to pass, got %+v", result)
	}

	result := CheckParameterForInjection("search", "'; DROP TABLE users--")
	if result == nil || !result.IsSQLi {
		t.Error("expected injection attempt to be detected")
	}

	if result := CheckParameterForInjection("limit", 100); result != nil {
		t.Errorf("non-string values cannot carry injection, got %+v", result)
	}
}
