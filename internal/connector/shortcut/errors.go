package shortcut

import "fmt"

// UnknownFieldError reports a requested report field id that is not in the
// catalog. Surfaced as a request-validation failure before any upstream call.
type UnknownFieldError struct {
	ID string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown report field: %s", e.ID)
}

// InvalidCredentialError reports a token that failed the credential probe.
// Distinct from an unexpected upstream failure: it is the expected outcome
// during credential setup.
type InvalidCredentialError struct {
	StatusCode int
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("credential rejected by upstream (HTTP %d)", e.StatusCode)
}
