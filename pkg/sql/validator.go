// Package sql provides SQL validation utilities.
//
// The checks here are deliberately surface-level string inspections, not a
// SQL grammar. Their bias is fail-closed: a query that cannot be shown to
// be a schema-grounded SELECT is rejected, never let through.
package sql

import (
	"regexp"
	"strings"
)

var (
	lineCommentRegex  = regexp.MustCompile(`(?m)--.*$`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Verdict is the result of validating a SQL statement against a schema.
// Both checks are independent and both are always evaluated, so callers
// can report a specific failure classification instead of a short-circuited
// single failure.
type Verdict struct {
	// ReadOnly is true when the first token after comment stripping is
	// SELECT (case-insensitive).
	ReadOnly bool

	// ReferencesSchema is true when at least one table name from the
	// schema appears as a case-insensitive substring of the SQL text.
	ReferencesSchema bool

	// SQL is the statement that was inspected.
	SQL string
}

// Safe reports whether the statement passed both checks. There is no
// weaker partial-pass state.
func (v Verdict) Safe() bool {
	return v.ReadOnly && v.ReferencesSchema
}

// Validate runs both safety checks on a SQL statement. It is a pure
// function of its inputs: re-running it on the same (sql, schema) pair
// yields an identical verdict.
func Validate(sqlQuery, schemaText string) Verdict {
	return Verdict{
		ReadOnly:         IsReadOnly(sqlQuery),
		ReferencesSchema: ReferencesSchema(sqlQuery, schemaText),
		SQL:              sqlQuery,
	}
}

// IsReadOnly reports whether the statement's first token, after stripping
// single-line (-- ...) and block (/* ... */) comments, is SELECT.
// An empty statement has no token to inspect and is treated as not
// read-only.
func IsReadOnly(sqlQuery string) bool {
	cleaned := StripComments(sqlQuery)
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return false
	}
	return strings.ToLower(fields[0]) == "select"
}

// ReferencesSchema reports whether the statement mentions at least one
// table declared in the schema text. The containment test is intentionally
// coarse: a table name inside a string literal counts (tolerated false
// positive), while an aliased or computed table reference does not
// (intentional false negative - the caller is pointed at a revised prompt
// rather than silently let through).
func ReferencesSchema(sqlQuery, schemaText string) bool {
	tables := ExtractTableNames(schemaText)
	if len(tables) == 0 {
		return false
	}

	sqlLower := strings.ToLower(sqlQuery)
	for table := range tables {
		if strings.Contains(sqlLower, table) {
			return true
		}
	}
	return false
}

// StripComments removes single-line and block comments from SQL text.
func StripComments(sqlQuery string) string {
	cleaned := lineCommentRegex.ReplaceAllString(sqlQuery, "")
	cleaned = blockCommentRegex.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
