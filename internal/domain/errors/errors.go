package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists        = errors.New("already exists")
	ErrNotFound             = errors.New("not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrHashMismatch         = errors.New("hash mismatch")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrPaymentFinalized     = errors.New("payment already finalized")
	ErrCaseNotPayable       = errors.New("case is not payable")
	ErrMissingParameters    = errors.New("missing parameters")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
