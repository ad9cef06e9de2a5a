package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/rexbot/pkg/pattern/ast"
)

func concat(terms ...ast.Term) ast.Terms {
	return ast.Terms{Concat: terms}
}

func union(branches ...ast.Terms) *ast.Expression {
	return &ast.Expression{Union: branches}
}

func lit(r rune) ast.Term {
	return ast.Term{Factor: ast.Char(r)}
}

func TestParseTrees(t *testing.T) {
	tests := []struct {
		pattern string
		want    *ast.Expression
	}{
		{
			pattern: "ab",
			want:    union(concat(lit('a'), lit('b'))),
		},
		{
			pattern: "a|b",
			want:    union(concat(lit('a')), concat(lit('b'))),
		},
		{
			pattern: "a{3}",
			want: union(concat(ast.Term{
				Factor: ast.Char('a'),
				Suffix: &ast.Suffix{Kind: ast.SuffixRepeat, Min: 3},
			})),
		},
		{
			pattern: "a{2,4}",
			want: union(concat(ast.Term{
				Factor: ast.Char('a'),
				Suffix: &ast.Suffix{Kind: ast.SuffixRange, Min: 2, Max: 4},
			})),
		},
		{
			pattern: "x{5,}",
			want: union(concat(ast.Term{
				Factor: ast.Char('x'),
				Suffix: &ast.Suffix{Kind: ast.SuffixOpenRange, Min: 5},
			})),
		},
		{
			pattern: "<a|b>{3}",
			want: union(concat(ast.Term{
				Factor: ast.FixedGroup{Expr: union(concat(lit('a')), concat(lit('b')))},
				Suffix: &ast.Suffix{Kind: ast.SuffixRepeat, Min: 3},
			})),
		},
		{
			pattern: "(a|b)*",
			want: union(concat(ast.Term{
				Factor: ast.Group{Expr: union(concat(lit('a')), concat(lit('b')))},
				Suffix: &ast.Suffix{Kind: ast.SuffixAsterisk},
			})),
		},
		{
			pattern: `\d+\w?`,
			want: union(concat(
				ast.Term{Factor: ast.Escape('d'), Suffix: &ast.Suffix{Kind: ast.SuffixPlus}},
				ast.Term{Factor: ast.Escape('w'), Suffix: &ast.Suffix{Kind: ast.SuffixQuestion}},
			)),
		},
		{
			pattern: `[a-z0-9_]`,
			want: union(concat(ast.Term{Factor: ast.Class{Elements: []ast.ClassElement{
				ast.Range{Low: 'a', High: 'z'},
				ast.Range{Low: '0', High: '9'},
				ast.Char('_'),
			}}})),
		},
		{
			pattern: "日本+",
			want: union(concat(
				lit('日'),
				ast.Term{Factor: ast.Char('本'), Suffix: &ast.Suffix{Kind: ast.SuffixPlus}},
			)),
		},
		{
			pattern: `\(\|\)`,
			want: union(concat(
				ast.Term{Factor: ast.Escape('(')},
				ast.Term{Factor: ast.Escape('|')},
				ast.Term{Factor: ast.Escape(')')},
			)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Parse(tt.pattern)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestParseClassElements(t *testing.T) {
	tests := []struct {
		pattern string
		want    []ast.ClassElement
	}{
		{"[-a]", []ast.ClassElement{ast.Char('-'), ast.Char('a')}},
		{"[a-]", []ast.ClassElement{ast.Char('a'), ast.Char('-')}},
		{"[--/]", []ast.ClassElement{ast.Char('-'), ast.Char('-'), ast.Char('/')}},
		{`[a-\d]`, []ast.ClassElement{ast.Char('a'), ast.Char('-'), ast.Escape('d')}},
		{`[\a-z]`, []ast.ClassElement{ast.Escape('a'), ast.Char('-'), ast.Char('z')}},
		{`[\]\-]`, []ast.ClassElement{ast.Escape(']'), ast.Escape('-')}},
		{"[a-a]", []ast.ClassElement{ast.Range{Low: 'a', High: 'a'}}},
		{"[!--]", []ast.ClassElement{ast.Range{Low: '!', High: '-'}}},
		{"[ぁ-ん]", []ast.ClassElement{ast.Range{Low: 'ぁ', High: 'ん'}}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			expr, err := Parse(tt.pattern)
			require.NoError(t, err)
			require.Len(t, expr.Union, 1)
			require.Len(t, expr.Union[0].Concat, 1)

			class, ok := expr.Union[0].Concat[0].Factor.(ast.Class)
			require.True(t, ok, "factor is %T", expr.Union[0].Concat[0].Factor)
			if diff := cmp.Diff(tt.want, class.Elements); diff != "" {
				t.Errorf("elements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		offset  int
	}{
		{"empty pattern", "", 0},
		{"empty branch", "a||b", 2},
		{"trailing bar", "a|", 2},
		{"leading bar", "|a", 0},
		{"empty group", "()", 1},
		{"unterminated group", "(ab", 0},
		{"unterminated fixed group", "<ab", 0},
		{"mismatched close", "(ab>", 3},
		{"stray close paren", "ab)", 2},
		{"stray close angle", "ab>", 2},
		{"empty class", "[]", 0},
		{"bare open bracket", "[", 0},
		{"unterminated class", "[ab", 0},
		{"reserved in class", "[a(]", 2},
		{"inverted range", "[z-a]", 1},
		{"dangling escape", `ab\`, 2},
		{"double quantifier", "a**", 2},
		{"quantifier first", "*a", 0},
		{"quantifier without digits", "a{}", 2},
		{"quantifier with letters", "a{x}", 2},
		{"unterminated quantifier", "a{3", 1},
		{"bad upper bound", "a{3,x}", 4},
		{"inverted repeat range", "a{5,2}", 1},
		{"count overflow", "a{99999999999999999999999}", 2},
		{"stray close brace", "a}", 1},
		{"stray close bracket", "a]", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.pattern)
			require.Error(t, err)
			assert.Nil(t, expr)
			assert.True(t, errors.Is(err, ErrSyntax))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.offset, perr.Offset, "reason: %s", perr.Reason)
			assert.NotEmpty(t, perr.Reason)
		})
	}
}

func TestParseInvalidUTF8(t *testing.T) {
	_, err := Parse("a\xffb")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Parse("[z-a]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverted range z-a")
	assert.Contains(t, err.Error(), "position 1")

	_, err = Parse("(a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated group")
}

func TestParseRoundTrip(t *testing.T) {
	patterns := []string{
		"a",
		"abc|def",
		"(a|b){2,5}c*",
		"<[a-z]{3}>{2}",
		`\d{4}-\d{2}-\d{2}`,
		`[-a\]b-]+`,
		"x{0,}y{0}z{1,1}",
		`(((a)))|<<b>>`,
		`\w+@\w+\.(com|org|net)`,
		`[a-\w]`,
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			first, err := Parse(pattern)
			require.NoError(t, err)
			assert.Equal(t, pattern, first.String())

			second, err := Parse(first.String())
			require.NoError(t, err)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("re-parse mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	const pattern = "(foo|bar)<[0-9]>{2}baz?"
	a, err := Parse(pattern)
	require.NoError(t, err)
	b, err := Parse(pattern)
	require.NoError(t, err)
	assert.True(t, cmp.Equal(a, b))
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() { MustParse("a+") })
	assert.Panics(t, func() { MustParse("a{") })
}

func TestIsReserved(t *testing.T) {
	for _, r := range "[]()<>{}?*+|" {
		assert.True(t, IsReserved(r), "%q", r)
	}
	for _, r := range `abc-\.,^$` {
		assert.False(t, IsReserved(r), "%q", r)
	}
}
