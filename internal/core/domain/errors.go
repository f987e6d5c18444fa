package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTemporary         = errors.New("temporary failure")
	ErrNoOutput          = errors.New("generator returned no output")
	ErrInvalidOutput     = errors.New("generator output is not a structured summary")
	ErrNoDocumentsScored = errors.New("no documents were successfully scored")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ParseError reports model output that could not be decoded as a summary.
// Raw keeps the untouched text so it can be shown for prompt debugging.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e == nil || e.Err == nil {
		return ErrInvalidOutput.Error()
	}
	return fmt.Sprintf("%s: %v", ErrInvalidOutput.Error(), e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{ErrInvalidOutput, e.Err}
}

// RawOutput returns the raw model text carried by a ParseError anywhere in err's chain.
func RawOutput(err error) (string, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Raw, true
	}
	return "", false
}
