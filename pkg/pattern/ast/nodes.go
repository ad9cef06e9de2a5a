// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     ast
// Description: Syntax tree of the pattern language
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

package ast

import (
	"strconv"
	"strings"
)

// Escape payloads with a generative meaning
const (
	DigitClass = 'd' // \d, one of 0-9
	WordClass  = 'w' // \w, one of a-z A-Z 0-9 _
)

// Weights of the escape classes inside a character class
const (
	DigitClassSize = 10
	WordClassSize  = 26 + 26 + 10 + 1
)

// MaxRepeat is the largest count accepted in a {} quantifier
const MaxRepeat = 1 << 30

// Node is implemented by every tree node. String renders the node back to
// pattern syntax; parsing the rendering of a parsed tree yields an equal tree.
type Node interface {
	String() string
}

// ClassElement is one member of a bracketed character class: a Range or a
// Literal.
type ClassElement interface {
	Node
	// Size is the selection weight of the element within its class
	Size() int
	classElement()
}

// Token is a single generative unit: a Literal or a Class.
type Token interface {
	Factor
	token()
}

// Factor is a Token, a Group or a FixedGroup.
type Factor interface {
	Node
	factor()
}

// Literal is one concrete character, or the character following a
// backslash when Escaped is set.
type Literal struct {
	Value   rune
	Escaped bool
}

// Char returns a plain literal
func Char(r rune) Literal {
	return Literal{Value: r}
}

// Escape returns an escaped literal
func Escape(r rune) Literal {
	return Literal{Value: r, Escaped: true}
}

// IsDigitClass reports whether l is \d
func (l Literal) IsDigitClass() bool {
	return l.Escaped && l.Value == DigitClass
}

// IsWordClass reports whether l is \w
func (l Literal) IsWordClass() bool {
	return l.Escaped && l.Value == WordClass
}

// Size returns 10 for \d, 63 for \w and 1 otherwise
func (l Literal) Size() int {
	switch {
	case l.IsDigitClass():
		return DigitClassSize
	case l.IsWordClass():
		return WordClassSize
	default:
		return 1
	}
}

func (l Literal) String() string {
	if l.Escaped {
		return `\` + string(l.Value)
	}
	return string(l.Value)
}

func (Literal) classElement() {}
func (Literal) factor()       {}
func (Literal) token()        {}

// Range is an inclusive codepoint range inside a class. Low <= High.
type Range struct {
	Low  rune
	High rune
}

// Size returns the number of codepoints covered by the range
func (r Range) Size() int {
	return int(r.High) - int(r.Low) + 1
}

func (r Range) String() string {
	return string(r.Low) + "-" + string(r.High)
}

func (Range) classElement() {}

// Class is a bracketed character class with at least one element.
type Class struct {
	Elements []ClassElement
}

// Size returns the total weight of all elements
func (c Class) Size() int {
	total := 0
	for _, e := range c.Elements {
		total += e.Size()
	}
	return total
}

func (c Class) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, e := range c.Elements {
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (Class) factor() {}
func (Class) token()  {}

// Group is a parenthesized sub-expression, sampled again on every repetition.
type Group struct {
	Expr *Expression
}

func (g Group) String() string {
	return "(" + g.Expr.String() + ")"
}

func (Group) factor() {}

// FixedGroup is an angle-bracketed sub-expression. Under a quantifier it is
// sampled once and the sample is repeated.
type FixedGroup struct {
	Expr *Expression
}

func (g FixedGroup) String() string {
	return "<" + g.Expr.String() + ">"
}

func (FixedGroup) factor() {}

// SuffixKind selects the repetition policy of a Suffix
type SuffixKind int

const (
	SuffixQuestion  SuffixKind = iota // ?      zero or one
	SuffixAsterisk                    // *      geometric, from zero
	SuffixPlus                        // +      geometric, from one
	SuffixRange                       // {m,n}  uniform in [Min, Max]
	SuffixOpenRange                   // {m,}   geometric, from Min
	SuffixRepeat                      // {n}    exactly Min
)

// String returns the name of the suffix kind
func (k SuffixKind) String() string {
	switch k {
	case SuffixQuestion:
		return "question"
	case SuffixAsterisk:
		return "asterisk"
	case SuffixPlus:
		return "plus"
	case SuffixRange:
		return "range"
	case SuffixOpenRange:
		return "open_range"
	case SuffixRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Suffix is the quantifier of a term. Min is used by Range, OpenRange and
// Repeat; Max only by Range, where Min <= Max.
type Suffix struct {
	Kind SuffixKind
	Min  uint
	Max  uint
}

func (s Suffix) String() string {
	switch s.Kind {
	case SuffixQuestion:
		return "?"
	case SuffixAsterisk:
		return "*"
	case SuffixPlus:
		return "+"
	case SuffixRange:
		return "{" + strconv.FormatUint(uint64(s.Min), 10) + "," + strconv.FormatUint(uint64(s.Max), 10) + "}"
	case SuffixOpenRange:
		return "{" + strconv.FormatUint(uint64(s.Min), 10) + ",}"
	case SuffixRepeat:
		return "{" + strconv.FormatUint(uint64(s.Min), 10) + "}"
	default:
		return ""
	}
}

// Term is a factor with an optional quantifier
type Term struct {
	Factor Factor
	Suffix *Suffix
}

func (t Term) String() string {
	if t.Suffix == nil {
		return t.Factor.String()
	}
	return t.Factor.String() + t.Suffix.String()
}

// Terms is an ordered, non-empty concatenation
type Terms struct {
	Concat []Term
}

func (t Terms) String() string {
	var sb strings.Builder
	for _, term := range t.Concat {
		sb.WriteString(term.String())
	}
	return sb.String()
}

// Expression is a non-empty alternation of concatenations
type Expression struct {
	Union []Terms
}

func (e *Expression) String() string {
	branches := make([]string, len(e.Union))
	for i, b := range e.Union {
		branches[i] = b.String()
	}
	return strings.Join(branches, "|")
}

// Depth returns the group nesting depth of the expression; a pattern
// without groups has depth 0.
func (e *Expression) Depth() int {
	depth := 0
	for _, branch := range e.Union {
		for _, term := range branch.Concat {
			var inner *Expression
			switch f := term.Factor.(type) {
			case Group:
				inner = f.Expr
			case FixedGroup:
				inner = f.Expr
			default:
				continue
			}
			if d := inner.Depth() + 1; d > depth {
				depth = d
			}
		}
	}
	return depth
}
