package llm

import (
	"errors"
	"fmt"
)

// ErrProviderNotConfigured is returned when a model maps to a provider whose
// API key is missing.
var ErrProviderNotConfigured = errors.New("provider not configured")

// BackendError wraps a failure talking to a model backend.
type BackendError struct {
	Provider string
	Model    string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error (model %s): %v", e.Provider, e.Model, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
