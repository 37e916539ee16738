package llm

// Outcome classifies the result of one generation call. Exactly one
// outcome is produced per call; there is no partially populated state.
type Outcome string

const (
	// OutcomeGenerated means the backend produced a candidate SQL
	// statement. The statement is unvalidated at this point.
	OutcomeGenerated Outcome = "generated"

	// OutcomeRefused means the backend explicitly signaled that the
	// request cannot be grounded in the supplied schema.
	OutcomeRefused Outcome = "refused"

	// OutcomeBackendError means the backend was unreachable or errored.
	// No SQL is ever substituted on this path.
	OutcomeBackendError Outcome = "backend_error"
)

// GenerationResult is the tagged outcome of a generation call. Callers
// switch on Outcome instead of string-matching error messages.
type GenerationResult struct {
	Outcome Outcome
	SQL     string // set only for OutcomeGenerated
	Err     error  // set only for OutcomeBackendError
}

// Generated wraps a candidate SQL statement.
func Generated(sql string) GenerationResult {
	return GenerationResult{Outcome: OutcomeGenerated, SQL: sql}
}

// Refused marks an explicit out-of-schema refusal from the backend.
func Refused() GenerationResult {
	return GenerationResult{Outcome: OutcomeRefused}
}

// BackendError wraps a transport or backend failure.
func BackendError(err error) GenerationResult {
	return GenerationResult{Outcome: OutcomeBackendError, Err: err}
}
