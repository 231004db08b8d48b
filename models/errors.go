package models

import "fmt"

// ErrorNotFound means a referenced skill, version or article does not
// exist. It is always surfaced to the caller, never retried internally.
type ErrorNotFound struct {
	Resource string
	ID       interface{}
}

func (e ErrorNotFound) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Resource, e.ID)
}

// ErrorValidation means the input was malformed; nothing was written.
type ErrorValidation struct {
	Message string
}

func (e ErrorValidation) Error() string {
	return e.Message
}

// CapabilityError is a failed generation or analysis call. Status and
// Body carry the upstream response verbatim so the caller can decide
// whether to retry the step.
type CapabilityError struct {
	Status int
	Body   string
	Err    error
}

func (e CapabilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm call failed: %v", e.Err)
	}
	return fmt.Sprintf("llm api error (%d): %s", e.Status, e.Body)
}

func (e CapabilityError) Unwrap() error { return e.Err }
