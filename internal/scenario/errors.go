package scenario

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by validation and computation.
// Compare with errors.Is.
var (
	// ErrInvalidConfiguration is returned before any computation when a
	// Config breaks a documented invariant.
	ErrInvalidConfiguration = constError("invalid configuration")

	// ErrDomainMath indicates a calculation outside its mathematical domain,
	// such as the logarithm of non-positive baseline emissions.
	ErrDomainMath = constError("domain math error")

	// ErrMissingReferenceData indicates a required reference table or year
	// entry is absent.
	ErrMissingReferenceData = constError("missing reference data")
)

// FieldError describes one invalid Config field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *FieldError) Unwrap() error { return ErrInvalidConfiguration }

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NewFieldError builds a FieldError for callers outside this package that
// detect configuration problems only reference data can reveal.
func NewFieldError(field, format string, args ...any) error {
	return fieldErr(field, format, args...)
}
