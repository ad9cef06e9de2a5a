// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     generator
// Description: Random string generation from pattern syntax trees
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

// Package generator produces random strings matching a parsed pattern.
//
// Generation is a pure function of the tree and the Source; the tree is
// only read and may be shared between goroutines, each with its own Source.
package generator

import (
	"unicode/utf8"

	"github.com/msto63/rexbot/pkg/pattern/ast"
)

// Probability of one more repetition for *, + and {n,}
const growthProbability = 0.5

const wordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"

// Option configures a single Generate call
type Option func(*generator)

// WithMaxLength aborts generation with ErrLimitExceeded as soon as the
// output grows beyond n bytes. n <= 0 disables the check.
func WithMaxLength(n int) Option {
	return func(g *generator) {
		g.maxLen = n
	}
}

// Generate returns one random string matching expr
func Generate(expr *ast.Expression, src Source, opts ...Option) (string, error) {
	g := &generator{src: src}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.expression(expr); err != nil {
		return "", err
	}
	return string(g.buf), nil
}

type generator struct {
	src    Source
	buf    []byte
	maxLen int
}

func (g *generator) checkLength() error {
	if g.maxLen > 0 && len(g.buf) > g.maxLen {
		return newError(ErrLimitExceeded, "more than %d bytes", g.maxLen)
	}
	return nil
}

func (g *generator) emit(r rune) error {
	g.buf = utf8.AppendRune(g.buf, r)
	return g.checkLength()
}

func (g *generator) expression(e *ast.Expression) error {
	branch := e.Union[g.src.IntN(len(e.Union))]
	for _, term := range branch.Concat {
		if err := g.term(term); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) term(t ast.Term) error {
	if t.Suffix == nil {
		return g.factor(t.Factor)
	}

	n := g.count(*t.Suffix)

	if _, fixed := t.Factor.(ast.FixedGroup); fixed {
		start := len(g.buf)
		if err := g.factor(t.Factor); err != nil {
			return err
		}
		if n == 0 {
			g.buf = g.buf[:start]
			return nil
		}
		// base is a copy; appending to g.buf may reallocate
		base := string(g.buf[start:])
		if base == "" {
			return nil
		}
		for i := uint(1); i < n; i++ {
			g.buf = append(g.buf, base...)
			if err := g.checkLength(); err != nil {
				return err
			}
		}
		return nil
	}

	for i := uint(0); i < n; i++ {
		if err := g.factor(t.Factor); err != nil {
			return err
		}
	}
	return nil
}

// count draws the repetition count for a suffix
func (g *generator) count(s ast.Suffix) uint {
	switch s.Kind {
	case ast.SuffixQuestion:
		return uint(g.src.IntN(2))
	case ast.SuffixAsterisk:
		return g.grow(0)
	case ast.SuffixPlus:
		return g.grow(1)
	case ast.SuffixOpenRange:
		return g.grow(s.Min)
	case ast.SuffixRange:
		return s.Min + uint(g.src.IntN(int(s.Max-s.Min)+1))
	default:
		return s.Min
	}
}

func (g *generator) grow(n uint) uint {
	for g.src.Bool(growthProbability) {
		n++
	}
	return n
}

func (g *generator) factor(f ast.Factor) error {
	switch f := f.(type) {
	case ast.Literal:
		return g.literal(f)
	case ast.Class:
		return g.class(f)
	case ast.Group:
		return g.expression(f.Expr)
	case ast.FixedGroup:
		return g.expression(f.Expr)
	default:
		return newError(ErrUnsupportedNode, "factor %T", f)
	}
}

func (g *generator) literal(l ast.Literal) error {
	if !l.Escaped {
		return g.emit(l.Value)
	}

	switch {
	case l.IsDigitClass():
		return g.emit(rune('0' + g.src.IntN(10)))
	case l.IsWordClass():
		return g.emit(rune(wordAlphabet[g.src.IntN(len(wordAlphabet))]))
	case isASCIIAlnum(l.Value):
		return newError(ErrInvalidEscape, `\%c`, l.Value)
	default:
		return g.emit(l.Value)
	}
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (g *generator) class(c ast.Class) error {
	total := c.Size()
	if total <= 0 {
		return newError(ErrEmptyClass, "%s", c)
	}

	r := g.src.IntN(total)
	for _, elem := range c.Elements {
		size := elem.Size()
		if r < size {
			return g.classElement(elem)
		}
		r -= size
	}
	return newError(ErrEmptyClass, "%s", c)
}

func (g *generator) classElement(e ast.ClassElement) error {
	switch e := e.(type) {
	case ast.Range:
		if e.High < e.Low {
			return newError(ErrInvalidCodepoint, "inverted range %s", e)
		}
		r := e.Low + rune(g.src.IntN(e.Size()))
		if !utf8.ValidRune(r) {
			return newError(ErrInvalidCodepoint, "U+%04X", r)
		}
		return g.emit(r)
	case ast.Literal:
		return g.literal(e)
	default:
		return newError(ErrUnsupportedNode, "class element %T", e)
	}
}
