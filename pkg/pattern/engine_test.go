package pattern

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/rexbot/foundation/core/error"
	"github.com/msto63/rexbot/pkg/pattern/generator"
	"github.com/msto63/rexbot/pkg/pattern/parser"
)

func newTestEngine(t *testing.T, limits Limits) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.Limits = limits
	e := NewEngine(opts)
	t.Cleanup(e.Close)
	return e
}

func TestCompileAndGenerate(t *testing.T) {
	p, err := Compile(`<ab>{2}\d`)
	require.NoError(t, err)
	assert.Equal(t, `<ab>{2}\d`, p.Source())
	assert.Equal(t, p.Source(), p.String())
	require.NotNil(t, p.AST())

	out, err := p.Generate(generator.NewSource(1))
	require.NoError(t, err)
	assert.Regexp(t, `^abab[0-9]$`, out)

	out, err = p.Generate(nil)
	require.NoError(t, err)
	assert.Len(t, out, 5)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile("[z-a]")
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrSyntax)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodePatternSyntax))

	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Offset)
}

func TestGenerationError(t *testing.T) {
	p := MustCompile(`\q`)
	_, err := p.Generate(generator.NewSource(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrInvalidEscape)
	assert.Equal(t, mdwerror.CodePatternGeneration, mdwerror.GetCode(err))
}

func TestPatternLengthLimit(t *testing.T) {
	e := newTestEngine(t, Limits{MaxPatternLength: 5})

	_, err := e.Compile("abcde")
	require.NoError(t, err)

	// runes, not bytes
	_, err = e.Compile("あいうえお")
	require.NoError(t, err)

	_, err = e.Compile("abcdef")
	assert.ErrorIs(t, err, ErrPatternTooLong)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodePatternLimit))
}

func TestDepthLimit(t *testing.T) {
	e := newTestEngine(t, Limits{MaxDepth: 3})

	_, err := e.Compile("((<a>))")
	require.NoError(t, err)

	_, err = e.Compile("((((a))))")
	assert.ErrorIs(t, err, ErrTooDeep)

	// escaped delimiters do not count
	_, err = e.Compile(`\(\(\(\(a`)
	require.NoError(t, err)

	// a deep but unbalanced pattern is rejected before parsing
	_, err = e.Compile(strings.Repeat("(", 100000))
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestNestingDepthMatchesTree(t *testing.T) {
	for _, source := range []string{"a", "(a)", "(a)(b)", "<(a|(b))>", `(\)(a))`, "[a-z](x<y>)"} {
		p := MustCompile(source)
		assert.Equal(t, p.AST().Depth(), nestingDepth(source), source)
	}
}

func TestOutputLimit(t *testing.T) {
	e := newTestEngine(t, Limits{MaxOutputLength: 5})

	out, err := e.Generate("a{5}", generator.NewSource(1))
	require.NoError(t, err)
	assert.Equal(t, "aaaaa", out)

	_, err = e.Generate("a{6}", generator.NewSource(1))
	assert.ErrorIs(t, err, ErrOutputTooLong)

	// counted in grapheme clusters: five flags are 40 bytes
	out, err = e.Generate("(🇯🇵){5}", generator.NewSource(1))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("🇯🇵", 5), out)

	// runaway repetition aborts early
	_, err = e.Generate("a{1000000000}", generator.NewSource(1))
	assert.ErrorIs(t, err, ErrOutputTooLong)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodePatternLimit))
}

func TestCompileWithLimits(t *testing.T) {
	limits := Limits{MaxPatternLength: 4, MaxOutputLength: 3}

	_, err := CompileWithLimits("abcde", limits)
	assert.ErrorIs(t, err, ErrPatternTooLong)

	p, err := CompileWithLimits("a{3}", limits)
	require.NoError(t, err)
	out, err := p.Generate(generator.NewSource(1))
	require.NoError(t, err)
	assert.Equal(t, "aaa", out)

	p, err = CompileWithLimits("a{4}", limits)
	require.NoError(t, err)
	_, err = p.Generate(nil)
	assert.ErrorIs(t, err, ErrOutputTooLong)

	// Compile applies none of them
	p, err = Compile("a{4}")
	require.NoError(t, err)
	out, err = p.Generate(nil)
	require.NoError(t, err)
	assert.Equal(t, "aaaa", out)
}

func TestEngineCache(t *testing.T) {
	e := newTestEngine(t, DefaultOptions().Limits)

	first, err := e.Compile("[a-z]+")
	require.NoError(t, err)
	second, err := e.Compile("[a-z]+")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = e.Compile("(")
	require.Error(t, err)
	_, err = e.Compile("(")
	require.Error(t, err)

	stats := e.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
}

func TestEngineSeededDeterminism(t *testing.T) {
	e := newTestEngine(t, Unlimited)
	a, err := e.Generate(`(\w|-){10}`, generator.NewSource(7))
	require.NoError(t, err)
	b, err := e.Generate(`(\w|-){10}`, generator.NewSource(7))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
