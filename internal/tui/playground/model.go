// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     playground
// Description: Bubbletea model for trying patterns interactively
// Author:      Mike Stoffels
// Created:     2026-10-06
// License:     MIT
// ============================================================================

package playground

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/msto63/rexbot/pkg/pattern"
	"github.com/msto63/rexbot/pkg/pattern/generator"
)

// Config holds playground configuration
type Config struct {
	// Samples drawn per roll
	Samples int
	// Initial pattern
	Pattern string
	Options pattern.Options
	// Source, nil = default source
	Source generator.Source
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Samples: 8,
		Pattern: `[a-z]{3}\d{2}`,
		Options: pattern.DefaultOptions(),
	}
}

// Model is the Bubbletea model of the playground
type Model struct {
	width  int
	height int

	input   textinput.Model
	engine  *pattern.Engine
	src     generator.Source
	count   int
	showAST bool

	compiled *pattern.Pattern
	samples  []string
	err      error
}

// New creates a playground model
func New(cfg Config) Model {
	if cfg.Samples <= 0 {
		cfg.Samples = DefaultConfig().Samples
	}

	ti := textinput.New()
	ti.Placeholder = "Muster eingeben, z.B. (ab|cd){2,4}"
	ti.Prompt = "› "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	ti.CharLimit = cfg.Options.Limits.MaxPatternLength
	ti.SetValue(cfg.Pattern)
	ti.Focus()

	m := Model{
		input:  ti,
		engine: pattern.NewEngine(cfg.Options),
		src:    cfg.Source,
		count:  cfg.Samples,
	}
	m.roll()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.showAST = !m.showAST
			return m, nil
		case tea.KeyEnter, tea.KeyCtrlR:
			m.roll()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.roll()
	}
	return m, cmd
}

// roll compiles the current input and draws a fresh set of samples
func (m *Model) roll() {
	m.samples = nil
	m.compiled = nil

	source := m.input.Value()
	if source == "" {
		m.err = nil
		return
	}

	p, err := m.engine.Compile(source)
	if err != nil {
		m.err = err
		return
	}
	m.compiled = p

	samples := make([]string, 0, m.count)
	for i := 0; i < m.count; i++ {
		out, err := p.Generate(m.src)
		if err != nil {
			m.err = err
			return
		}
		samples = append(samples, out)
	}
	m.samples = samples
	m.err = nil
}

// Samples returns the samples currently shown
func (m Model) Samples() []string {
	return m.samples
}

// Err returns the error currently shown
func (m Model) Err() error {
	return m.err
}

// ShowingAST reports whether the tree panel is visible
func (m Model) ShowingAST() bool {
	return m.showAST
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		"   ",
		SubHeaderStyle.Render("Zufallsstrings aus Mustern"),
	)
	b.WriteString(TitlePanelStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Fehler: " + m.err.Error()))
	} else if m.compiled != nil {
		b.WriteString(HelpDescStyle.Render("Kanonisch: ") + CanonicalStyle.Render(m.compiled.String()))
	}
	b.WriteString("\n")

	panels := []string{m.renderSamples()}
	if m.showAST {
		panels = append(panels, m.renderTree())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	b.WriteString("\n")

	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderSamples() string {
	var content strings.Builder
	content.WriteString(PanelTitleStyle.Render(fmt.Sprintf("Stichproben (%d)", len(m.samples))))
	for i, s := range m.samples {
		content.WriteString("\n")
		content.WriteString(SampleIndexStyle.Render(fmt.Sprintf("%2d ", i+1)))
		if s == "" {
			content.WriteString(HelpDescStyle.Render("(leer)"))
			continue
		}
		content.WriteString(SampleStyle.Render(s))
	}
	return PanelStyle.Render(content.String())
}

func (m Model) renderTree() string {
	var body string
	if m.compiled == nil {
		body = HelpDescStyle.Render("kein gültiges Muster")
	} else {
		out, err := yaml.Marshal(m.compiled.AST())
		if err != nil {
			body = ErrorStyle.Render(err.Error())
		} else {
			body = TreeStyle.Render(strings.TrimRight(string(out), "\n"))
		}
	}
	return PanelStyle.Render(PanelTitleStyle.Render("Syntaxbaum") + "\n" + body)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Enter/Ctrl+R", "Neu würfeln"),
		RenderKeyHint("Tab", "Syntaxbaum"),
		RenderKeyHint("Esc/Ctrl+C", "Beenden"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// Run starts the playground TUI
func Run(cfg Config) error {
	m := New(cfg)
	defer m.engine.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
