// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     pattern
// Description: Compile and generate with limits and a compiled-pattern cache
// Author:      Mike Stoffels
// Created:     2026-10-01
// License:     MIT
// ============================================================================

// Package pattern combines the parser and the generator for callers that
// handle untrusted input. It applies length and nesting limits before
// parsing, an output limit after generating, and caches compiled patterns.
package pattern

import (
	"errors"
	"time"

	mdwerror "github.com/msto63/rexbot/foundation/core/error"
	"github.com/msto63/rexbot/pkg/core/cache"
	"github.com/msto63/rexbot/pkg/core/logging"
	"github.com/msto63/rexbot/pkg/pattern/ast"
	"github.com/msto63/rexbot/pkg/pattern/generator"
	"github.com/msto63/rexbot/pkg/pattern/parser"
)

// Pattern is a compiled pattern. It is immutable and safe for concurrent use.
type Pattern struct {
	source string
	expr   *ast.Expression
	limits Limits
}

// Compile parses source without an engine, cache or limits
func Compile(source string) (*Pattern, error) {
	return compile(source, Unlimited)
}

// CompileWithLimits parses source under limits without caching
func CompileWithLimits(source string, limits Limits) (*Pattern, error) {
	return compile(source, limits)
}

// MustCompile is like Compile but panics on error
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

func compile(source string, limits Limits) (*Pattern, error) {
	if err := limits.checkPattern(source); err != nil {
		return nil, mdwerror.Wrap(err, "pattern rejected").
			WithCode(mdwerror.CodePatternLimit).
			WithOperation("pattern.Compile")
	}

	expr, err := parser.Parse(source)
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid pattern").
			WithCode(mdwerror.CodePatternSyntax).
			WithOperation("pattern.Compile")
	}

	return &Pattern{source: source, expr: expr, limits: limits}, nil
}

// Source returns the text the pattern was compiled from
func (p *Pattern) Source() string {
	return p.source
}

// String returns the canonical rendering of the pattern
func (p *Pattern) String() string {
	return p.expr.String()
}

// AST returns the syntax tree. It must not be modified.
func (p *Pattern) AST() *ast.Expression {
	return p.expr
}

// Generate draws one sample using src. A nil src uses the default source.
func (p *Pattern) Generate(src generator.Source) (string, error) {
	if src == nil {
		src = generator.DefaultSource()
	}

	out, err := generator.Generate(p.expr, src, generator.WithMaxLength(p.limits.generationBudget()))
	if errors.Is(err, generator.ErrLimitExceeded) {
		return "", mdwerror.Wrap(ErrOutputTooLong, "generation aborted").
			WithCode(mdwerror.CodePatternLimit).
			WithOperation("pattern.Generate")
	}
	if err != nil {
		return "", mdwerror.Wrap(err, "generation failed").
			WithCode(mdwerror.CodePatternGeneration).
			WithOperation("pattern.Generate")
	}

	if err := p.limits.checkOutput(out); err != nil {
		return "", mdwerror.Wrap(err, "generation rejected").
			WithCode(mdwerror.CodePatternLimit).
			WithOperation("pattern.Generate")
	}
	return out, nil
}

// Options configures an Engine
type Options struct {
	Limits    Limits
	CacheSize int
	CacheTTL  time.Duration
	Logger    *logging.Logger
}

// DefaultOptions returns the options used for chat input
func DefaultOptions() Options {
	return Options{
		Limits: Limits{
			MaxPatternLength: 1000,
			MaxDepth:         32,
			MaxOutputLength:  10000,
		},
		CacheSize: 256,
		CacheTTL:  30 * time.Minute,
	}
}

// Engine compiles patterns under fixed limits and caches the results
type Engine struct {
	limits Limits
	cache  *cache.Cache[*Pattern]
	logger *logging.Logger
}

// NewEngine creates an engine
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("pattern")
	}

	cacheCfg := cache.DefaultConfig()
	if opts.CacheSize > 0 {
		cacheCfg.MaxItems = opts.CacheSize
	}
	cacheCfg.TTL = opts.CacheTTL

	return &Engine{
		limits: opts.Limits,
		cache:  cache.New[*Pattern](cacheCfg),
		logger: logger,
	}
}

// Limits returns the limits applied by the engine
func (e *Engine) Limits() Limits {
	return e.limits
}

// Compile returns the compiled pattern for source, from cache if possible.
// Failed compilations are not cached.
func (e *Engine) Compile(source string) (*Pattern, error) {
	if p, ok := e.cache.Get(source); ok {
		return p, nil
	}

	p, err := compile(source, e.limits)
	if err != nil {
		e.logger.Debug("Pattern rejected", "pattern", source, "error", err)
		return nil, err
	}

	e.cache.Set(source, p)
	e.logger.Debug("Pattern compiled", "pattern", source, "depth", p.expr.Depth())
	return p, nil
}

// Generate compiles source and draws one sample
func (e *Engine) Generate(source string, src generator.Source) (string, error) {
	p, err := e.Compile(source)
	if err != nil {
		return "", err
	}
	return p.Generate(src)
}

// Stats returns the compiled-pattern cache statistics
func (e *Engine) Stats() cache.Stats {
	return e.cache.Stats()
}

// Close releases background resources
func (e *Engine) Close() {
	e.cache.Close()
}
