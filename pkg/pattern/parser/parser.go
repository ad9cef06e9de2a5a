// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     parser
// Description: Recursive descent parser for the pattern language
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

// Package parser turns pattern text into an ast.Expression.
//
// Grammar, from loosest to tightest binding:
//
//	expression    := terms ('|' terms)*
//	terms         := term+
//	term          := factor suffix?
//	factor        := '(' expression ')' | '<' expression '>' | token
//	token         := '[' class_element+ ']' | literal
//	literal       := '\' any | any except [ ] ( ) < > { } ? * + |
//	class_element := literal '-' literal | literal
//	suffix        := '?' | '*' | '+' | '{' n '}' | '{' n ',' '}' | '{' n ',' m '}'
//
// The whole input must be consumed; Parse never returns a partial tree.
package parser

import (
	"strconv"
	"unicode/utf8"

	"github.com/msto63/rexbot/pkg/pattern/ast"
)

// IsReserved reports whether r must be escaped to be used as a literal
func IsReserved(r rune) bool {
	switch r {
	case '[', ']', '(', ')', '<', '>', '{', '}', '?', '*', '+', '|':
		return true
	}
	return false
}

// Parse parses a complete pattern
func Parse(pattern string) (*ast.Expression, error) {
	if !utf8.ValidString(pattern) {
		return nil, &ParseError{Remainder: pattern, Reason: "pattern is not valid UTF-8"}
	}

	p := &parser{input: []rune(pattern)}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, p.errorf("unexpected %q after complete pattern", p.peek())
	}
	return expr, nil
}

// MustParse is like Parse but panics on error. Intended for patterns that
// are compile-time constants.
func MustParse(pattern string) *ast.Expression {
	expr, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return expr
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() rune {
	return p.input[p.pos]
}

// peekIs reports whether the current rune is r
func (p *parser) peekIs(r rune) bool {
	return !p.eof() && p.input[p.pos] == r
}

func (p *parser) errorf(reason string, args ...interface{}) *ParseError {
	if len(args) > 0 {
		reason = sprintf(reason, args...)
	}
	return &ParseError{
		Offset:    p.pos,
		Remainder: string(p.input[min(p.pos, len(p.input)):]),
		Reason:    reason,
	}
}

func (p *parser) parseExpression() (*ast.Expression, error) {
	first, err := p.parseTerms()
	if err != nil {
		return nil, err
	}

	expr := &ast.Expression{Union: []ast.Terms{first}}
	for p.peekIs('|') {
		p.pos++
		next, err := p.parseTerms()
		if err != nil {
			return nil, err
		}
		expr.Union = append(expr.Union, next)
	}
	return expr, nil
}

// endsTerms reports whether r closes the current concatenation
func endsTerms(r rune) bool {
	return r == '|' || r == ')' || r == '>'
}

func (p *parser) parseTerms() (ast.Terms, error) {
	var terms ast.Terms
	for !p.eof() && !endsTerms(p.peek()) {
		term, err := p.parseTerm()
		if err != nil {
			return ast.Terms{}, err
		}
		terms.Concat = append(terms.Concat, term)
	}

	if len(terms.Concat) == 0 {
		if p.eof() {
			return ast.Terms{}, p.errorf("expected a character, found end of pattern")
		}
		return ast.Terms{}, p.errorf("expected a character before %q", p.peek())
	}
	return terms, nil
}

func (p *parser) parseTerm() (ast.Term, error) {
	factor, err := p.parseFactor()
	if err != nil {
		return ast.Term{}, err
	}

	suffix, err := p.parseSuffix()
	if err != nil {
		return ast.Term{}, err
	}
	return ast.Term{Factor: factor, Suffix: suffix}, nil
}

func (p *parser) parseFactor() (ast.Factor, error) {
	switch p.peek() {
	case '(':
		expr, err := p.parseDelimited('(', ')', "group")
		if err != nil {
			return nil, err
		}
		return ast.Group{Expr: expr}, nil
	case '<':
		expr, err := p.parseDelimited('<', '>', "fixed group")
		if err != nil {
			return nil, err
		}
		return ast.FixedGroup{Expr: expr}, nil
	case '[':
		return p.parseClass()
	default:
		return p.parseLiteral()
	}
}

func (p *parser) parseDelimited(open, close rune, what string) (*ast.Expression, error) {
	start := p.pos
	p.pos++ // consume open

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if !p.peekIs(close) {
		if p.eof() {
			return nil, &ParseError{
				Offset:    start,
				Remainder: string(p.input[start:]),
				Reason:    sprintf("unterminated %s, missing %q", what, close),
			}
		}
		return nil, p.errorf("expected %q to close %s opened at position %d", close, what, start)
	}
	p.pos++ // consume close
	return expr, nil
}

func (p *parser) parseClass() (ast.Class, error) {
	start := p.pos
	p.pos++ // consume '['

	var class ast.Class
	for {
		if p.eof() {
			return ast.Class{}, &ParseError{
				Offset:    start,
				Remainder: string(p.input[start:]),
				Reason:    "unterminated character class, missing ']'",
			}
		}
		if p.peek() == ']' {
			break
		}

		elem, err := p.parseClassElement()
		if err != nil {
			return ast.Class{}, err
		}
		class.Elements = append(class.Elements, elem)
	}

	if len(class.Elements) == 0 {
		return ast.Class{}, &ParseError{
			Offset:    start,
			Remainder: string(p.input[start:]),
			Reason:    "empty character class",
		}
	}
	p.pos++ // consume ']'
	return class, nil
}

// parseClassElement reads a literal and, when it is a plain character other
// than '-' followed by '-' and another plain character, a range. In every
// other case the '-' is left for the next element.
func (p *parser) parseClassElement() (ast.ClassElement, error) {
	start := p.pos
	low, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	if low.Escaped || low.Value == '-' || !p.peekIs('-') {
		return low, nil
	}

	next := p.pos + 1
	if next >= len(p.input) {
		return low, nil
	}
	high := p.input[next]
	if high == '\\' || IsReserved(high) {
		return low, nil
	}

	if high < low.Value {
		return nil, &ParseError{
			Offset:    start,
			Remainder: string(p.input[start:]),
			Reason:    sprintf("inverted range %c-%c", low.Value, high),
		}
	}
	p.pos = next + 1
	return ast.Range{Low: low.Value, High: high}, nil
}

func (p *parser) parseLiteral() (ast.Literal, error) {
	r := p.peek()
	if r == '\\' {
		if p.pos+1 >= len(p.input) {
			return ast.Literal{}, p.errorf("escape at end of pattern")
		}
		p.pos += 2
		return ast.Escape(p.input[p.pos-1]), nil
	}

	if IsReserved(r) {
		return ast.Literal{}, p.errorf("reserved character %q must be escaped", r)
	}
	p.pos++
	return ast.Char(r), nil
}

func (p *parser) parseSuffix() (*ast.Suffix, error) {
	if p.eof() {
		return nil, nil
	}

	switch p.peek() {
	case '?':
		p.pos++
		return &ast.Suffix{Kind: ast.SuffixQuestion}, nil
	case '*':
		p.pos++
		return &ast.Suffix{Kind: ast.SuffixAsterisk}, nil
	case '+':
		p.pos++
		return &ast.Suffix{Kind: ast.SuffixPlus}, nil
	case '{':
		return p.parseCounted()
	default:
		return nil, nil
	}
}

// parseCounted parses {n}, {n,} and {n,m}
func (p *parser) parseCounted() (*ast.Suffix, error) {
	start := p.pos
	p.pos++ // consume '{'

	lo, err := p.parseCount()
	if err != nil {
		return nil, err
	}

	suffix := &ast.Suffix{Kind: ast.SuffixRepeat, Min: lo}
	if p.peekIs(',') {
		p.pos++
		suffix.Kind = ast.SuffixOpenRange
		if !p.peekIs('}') {
			hi, err := p.parseCount()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, &ParseError{
					Offset:    start,
					Remainder: string(p.input[start:]),
					Reason:    sprintf("inverted repeat range {%d,%d}", lo, hi),
				}
			}
			suffix.Kind = ast.SuffixRange
			suffix.Max = hi
		}
	}

	if !p.peekIs('}') {
		if p.eof() {
			return nil, &ParseError{
				Offset:    start,
				Remainder: string(p.input[start:]),
				Reason:    "unterminated quantifier, missing '}'",
			}
		}
		return nil, p.errorf("unexpected %q in quantifier", p.peek())
	}
	p.pos++ // consume '}'
	return suffix, nil
}

func (p *parser) parseCount() (uint, error) {
	start := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	if p.pos == start {
		if p.eof() {
			return 0, p.errorf("expected digits in quantifier, found end of pattern")
		}
		return 0, p.errorf("expected digits in quantifier, found %q", p.peek())
	}

	digits := string(p.input[start:p.pos])
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n > ast.MaxRepeat {
		return 0, &ParseError{
			Offset:    start,
			Remainder: string(p.input[start:]),
			Reason:    sprintf("repeat count %s exceeds %d", digits, ast.MaxRepeat),
		}
	}
	return uint(n), nil
}
