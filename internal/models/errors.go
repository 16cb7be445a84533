package models

import (
	"errors"
	"fmt"
)

var (
	// ErrLedgerNotFound is returned when a referenced ledger does not exist.
	ErrLedgerNotFound = errors.New("ledger not found")
	// ErrEntryNotFound is returned when a referenced entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrConflict is returned when an atomic ledger update could not be
	// applied. The operation committed no partial state and may be retried.
	ErrConflict = errors.New("ledger update conflict")
)

// ValidationError rejects malformed input before any mutation is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}
