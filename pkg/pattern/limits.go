package pattern

import (
	"errors"
	"fmt"

	"github.com/rivo/uniseg"
)

// Limit violations; the returned errors wrap one of these
var (
	ErrPatternTooLong = errors.New("pattern too long")
	ErrTooDeep        = errors.New("pattern nested too deeply")
	ErrOutputTooLong  = errors.New("generated text too long")
)

// maxClusterBytes is the byte budget per grapheme cluster used to abort
// runaway generation before the grapheme count can be checked
const maxClusterBytes = 32

// Limits bound the work done for untrusted patterns. A zero field disables
// the corresponding check.
type Limits struct {
	// MaxPatternLength in runes
	MaxPatternLength int
	// MaxDepth of nested groups, counting ( and <
	MaxDepth int
	// MaxOutputLength in grapheme clusters
	MaxOutputLength int
}

// Unlimited disables all checks
var Unlimited = Limits{}

func (l Limits) checkPattern(source string) error {
	if l.MaxPatternLength > 0 {
		if n := len([]rune(source)); n > l.MaxPatternLength {
			return fmt.Errorf("%w: %d characters, maximum is %d", ErrPatternTooLong, n, l.MaxPatternLength)
		}
	}
	if l.MaxDepth > 0 {
		if d := nestingDepth(source); d > l.MaxDepth {
			return fmt.Errorf("%w: depth %d, maximum is %d", ErrTooDeep, d, l.MaxDepth)
		}
	}
	return nil
}

func (l Limits) checkOutput(out string) error {
	if l.MaxOutputLength <= 0 {
		return nil
	}
	// cheap upper bound first; a cluster is at least one byte
	if len(out) <= l.MaxOutputLength {
		return nil
	}
	if n := uniseg.GraphemeClusterCount(out); n > l.MaxOutputLength {
		return fmt.Errorf("%w: %d characters, maximum is %d", ErrOutputTooLong, n, l.MaxOutputLength)
	}
	return nil
}

// generationBudget returns the byte bound handed to the generator
func (l Limits) generationBudget() int {
	if l.MaxOutputLength <= 0 {
		return 0
	}
	return l.MaxOutputLength * maxClusterBytes
}

// nestingDepth scans for the deepest run of unescaped ( and < without
// parsing, so that the recursive parser never sees input beyond MaxDepth.
func nestingDepth(source string) int {
	depth, deepest := 0, 0
	escaped := false
	for _, r := range source {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '(' || r == '<':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case r == ')' || r == '>':
			if depth > 0 {
				depth--
			}
		}
	}
	return deepest
}
