package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every *ParseError via errors.Is
var ErrSyntax = errors.New("pattern syntax error")

// ParseError reports why and where a pattern was rejected. Offset counts
// runes from the start of the pattern; Remainder is the unconsumed input
// starting at Offset.
type ParseError struct {
	Offset    int
	Remainder string
	Reason    string
}

func (e *ParseError) Error() string {
	if e.Remainder == "" {
		return fmt.Sprintf("parse error at position %d: %s (at end of pattern)", e.Offset, e.Reason)
	}
	return fmt.Sprintf("parse error at position %d: %s (near %q)", e.Offset, e.Reason, abbreviate(e.Remainder))
}

// Is makes errors.Is(err, ErrSyntax) true for parse errors
func (e *ParseError) Is(target error) bool {
	return target == ErrSyntax
}

func abbreviate(s string) string {
	const max = 16
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
