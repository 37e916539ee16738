package sql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/askql-io/askql-engine/pkg/apperrors"
)

var (
	// ErrMultipleStatements indicates the query contains multiple SQL
	// statements. Only single statements are executed.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")
)

// PrepareForExecution is the last line of defense before a statement runs
// against the live database. It independently re-runs the read-only check
// (never trusting an earlier verdict), rejects multi-statement input, and
// injects a row-count ceiling when the caller requested one and the SQL
// does not already carry a LIMIT clause.
//
// A nil requestedLimit leaves the statement's own scope untouched.
func PrepareForExecution(sqlQuery string, requestedLimit *int) (string, error) {
	if !IsReadOnly(sqlQuery) {
		return "", apperrors.ErrNotReadOnly
	}

	normalized := stripTrailingSemicolon(strings.TrimSpace(sqlQuery))
	if hasSemicolonOutsideStrings(normalized) {
		return "", ErrMultipleStatements
	}

	if requestedLimit != nil && !strings.Contains(strings.ToUpper(normalized), "LIMIT") {
		normalized = fmt.Sprintf("%s LIMIT %d", normalized, *requestedLimit)
	}

	return normalized, nil
}

// hasSemicolonOutsideStrings returns true if the SQL contains any semicolon
// outside of string literals. The trailing semicolon has already been
// stripped, so any remaining one indicates a second statement.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handles both backslash escape (\') and the SQL standard
			// doubled quote (''), which exits and immediately re-enters.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripTrailingSemicolon removes a trailing statement terminator and any
// surrounding whitespace.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}
