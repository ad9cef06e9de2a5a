package playground

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/rexbot/pkg/pattern"
	"github.com/msto63/rexbot/pkg/pattern/generator"
	"github.com/msto63/rexbot/pkg/pattern/parser"
)

func newTestModel(t *testing.T, pat string) Model {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Pattern = pat
	cfg.Samples = 4
	cfg.Source = generator.NewSource(7)
	m := New(cfg)
	t.Cleanup(m.engine.Close)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(t *testing.T, m Model, s string) Model {
	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestInitialSamples(t *testing.T) {
	m := newTestModel(t, "ab{2}")
	assert.Equal(t, []string{"abb", "abb", "abb", "abb"}, m.Samples())
	assert.NoError(t, m.Err())
	assert.Contains(t, m.View(), "abb")
}

func TestTypingRecompiles(t *testing.T) {
	m := newTestModel(t, "")
	assert.Empty(t, m.Samples())

	m = typeText(t, m, "x(")
	require.Error(t, m.Err())
	assert.ErrorIs(t, m.Err(), parser.ErrSyntax)
	assert.Empty(t, m.Samples())
	assert.Contains(t, m.View(), "Fehler")

	m = typeText(t, m, "y)")
	require.NoError(t, m.Err())
	assert.Equal(t, []string{"xy", "xy", "xy", "xy"}, m.Samples())
	assert.Contains(t, m.View(), "Kanonisch")
}

func TestRerollDrawsNewSamples(t *testing.T) {
	m := newTestModel(t, "[a-z]{12}")
	first := append([]string(nil), m.Samples()...)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Len(t, m.Samples(), 4)
	assert.NotEqual(t, first, m.Samples())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.Samples(), 4)
}

func TestToggleAST(t *testing.T) {
	m := newTestModel(t, "a|b")
	assert.False(t, m.ShowingAST())
	assert.NotContains(t, m.View(), "union")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.ShowingAST())
	view := m.View()
	assert.Contains(t, view, "Syntaxbaum")
	assert.Contains(t, view, "union")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.ShowingAST())
}

func TestGenerationErrorShown(t *testing.T) {
	m := newTestModel(t, `\q`)
	assert.ErrorIs(t, m.Err(), generator.ErrInvalidEscape)
	assert.Empty(t, m.Samples())
}

func TestLimitErrorShown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pattern = "a{50}"
	cfg.Options.Limits = pattern.Limits{MaxOutputLength: 10}
	m := New(cfg)
	defer m.engine.Close()

	assert.ErrorIs(t, m.Err(), pattern.ErrOutputTooLong)
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newTestModel(t, "a")
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, "a")
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 92, m.input.Width)
	assert.True(t, strings.Contains(m.View(), "rexbot Playground"))
}
