package services

import (
	"errors"
	"fmt"
)

// Error taxonomy for the quotation engine. Row store failures are wrapped in
// ErrStoreUnavailable and propagate unchanged to the handlers; nothing in
// the service layer retries them, because retrying a non-idempotent append
// could duplicate rows.
var (
	// ErrStoreUnavailable indicates a transport or auth failure talking to
	// the backing row store.
	ErrStoreUnavailable = errors.New("row store unavailable")

	// ErrNotFound indicates the requested document, category or product has
	// no matching row.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a malformed request (missing required fields).
	ErrValidation = errors.New("validation failed")
)

// PartialCascadeError reports that a mutation spanning two sheets succeeded
// on one and failed on the other. It is surfaced distinctly so the caller
// can reconcile the sheets manually; it is never silently swallowed.
type PartialCascadeError struct {
	Completed string // sheet whose mutation was applied
	Failed    string // sheet whose mutation failed
	Err       error
}

func (e *PartialCascadeError) Error() string {
	return fmt.Sprintf("partial cascade: %s updated but %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialCascadeError) Unwrap() error {
	return e.Err
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
