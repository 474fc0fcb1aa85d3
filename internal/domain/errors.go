package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrModuleNotFound is returned when a module id does not resolve in the registry.
	ErrModuleNotFound = errors.New("module not found")
	// ErrQuizNotFound indicates the quiz content could not be resolved or loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUnknownTrack is returned for a track outside {DPA, AE, GENERAL}.
	ErrUnknownTrack = errors.New("unknown track")
	// ErrQuotaExceeded signals that the durable store rejected a write.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrStoreUnavailable indicates the durable store failed its init probe.
	ErrStoreUnavailable = errors.New("durable store unavailable")
)

// ValidationError reports an ill-typed or out-of-range input to an engine
// operation. It belongs to the caller's contract and is never wrapped away.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IntegrityWarning records a non-fatal data problem, e.g. a malformed
// content record skipped at warm-up or a dangling progress reference.
type IntegrityWarning struct {
	Source string // the record or operation the warning originated from
	ID     string
	Reason string
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Source, w.ID, w.Reason)
}

// Diagnostics is an optional sink for integrity warnings. The zero value
// discards nothing and is ready to use; a nil *Diagnostics discards all.
type Diagnostics struct {
	warnings []IntegrityWarning
}

// Warn appends a warning. Safe on a nil receiver.
func (d *Diagnostics) Warn(source, id, reason string) {
	if d == nil {
		return
	}
	d.warnings = append(d.warnings, IntegrityWarning{Source: source, ID: id, Reason: reason})
}

// Warnings returns all accumulated warnings in emission order.
func (d *Diagnostics) Warnings() []IntegrityWarning {
	if d == nil {
		return nil
	}
	return d.warnings
}
