package generator

import (
	"errors"
	"fmt"
)

// Kinds of generation failures
var (
	ErrInvalidEscape    = errors.New("invalid escape")
	ErrInvalidCodepoint = errors.New("invalid codepoint")
	ErrEmptyClass       = errors.New("empty character class")
	// ErrLimitExceeded is only returned when a length budget was set with
	// WithMaxLength
	ErrLimitExceeded = errors.New("output length limit exceeded")
	// ErrUnsupportedNode means the tree was not built by the parser
	ErrUnsupportedNode = errors.New("unsupported syntax node")
)

// GenerationError is returned by Generate. Kind is one of the Err* values
// above and is reachable via errors.Is.
type GenerationError struct {
	Kind   error
	Detail string
}

func (e *GenerationError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *GenerationError) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *GenerationError {
	return &GenerationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
