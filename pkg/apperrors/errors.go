package apperrors

import "errors"

var (
	// ErrNoSchemaConfigured means the caller has no schema on file. The
	// request is rejected before any generation call is attempted.
	ErrNoSchemaConfigured = errors.New("no database schema configured")

	// ErrOutOfSchema means the generation backend explicitly signaled it
	// cannot ground the request in the caller's schema.
	ErrOutOfSchema = errors.New("request does not match any tables in the schema")

	// ErrNotReadOnly means the SQL failed the read-only check. Fatal to
	// the request; the statement is never executed.
	ErrNotReadOnly = errors.New("only SELECT queries are allowed")

	// ErrSchemaNotGrounded means the SQL passed the read-only check but
	// referenced no known table from the caller's schema.
	ErrSchemaNotGrounded = errors.New("query does not reference any table in the schema")

	// ErrBackendUnavailable means the generation backend was unreachable
	// or errored. Retryable from the caller's point of view.
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrExecutionFailed wraps a database error raised by a live query.
	ErrExecutionFailed = errors.New("query execution failed")
)
