// Package ast defines the syntax tree of the pattern language.
//
// The tree mirrors the grammar:
//
//	Expression  alternation     a|b|c
//	Terms       concatenation   abc
//	Term        factor+suffix   a{2,3}
//	Factor      Token, Group (...) or FixedGroup <...>
//	Token       Literal or Class [...]
//
// Trees are built once by the parser and treated as read-only afterwards, so
// a parsed Expression may be shared between goroutines.
package ast
