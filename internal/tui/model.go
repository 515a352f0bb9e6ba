package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kvasha/digitype/internal/model"
	"github.com/kvasha/digitype/internal/session"
	"github.com/kvasha/digitype/internal/sound"
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	offTrackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
)

type tickMsg time.Time

// Model drives the typing screen. All session logic lives in the engine;
// the model only translates terminal input into session events.
type Model struct {
	engine *session.Engine
	sound  *sound.Player

	width  int
	height int

	input  string
	result *model.Result
	err    error
}

// NewModel constructs the typing screen over a started engine.
func NewModel(engine *session.Engine, player *sound.Player) *Model {
	return &Model{engine: engine, sound: player}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		result, err := m.engine.Handle(session.Tick{})
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		if result != nil {
			m.finish(result)
		}
		if m.engine.State() == session.StateRunning {
			return m, tickCmd()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyCtrlP:
		if _, err := m.engine.Handle(session.PauseToggled{}); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyCtrlR:
		return m.restart()
	case tea.KeyEnter:
		if m.engine.AwaitingPrompt() {
			if _, err := m.engine.Handle(session.SubmitCustomText{Text: m.input}); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.input = ""
		}
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
			return m, m.pushInput()
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, m.pushInput()
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, m.pushInput()
	default:
		return m, nil
	}
}

func (m *Model) pushInput() tea.Cmd {
	m.sound.Play(sound.CueKeyPress)
	result, err := m.engine.Handle(session.Keystroke{Text: m.input})
	if err != nil {
		m.err = err
		return tea.Quit
	}
	if result != nil {
		m.finish(result)
		return nil
	}
	if m.engine.Typed() == "" && m.input != "" {
		// The engine advanced to the next uploaded line.
		m.input = ""
	}
	return nil
}

func (m *Model) finish(result *model.Result) {
	m.result = result
	m.sound.Play(sound.CueComplete)
}

func (m *Model) restart() (tea.Model, tea.Cmd) {
	if _, err := m.engine.Handle(session.Reset{}); err != nil {
		m.err = err
		return m, tea.Quit
	}
	if err := m.engine.Start(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.input = ""
	m.result = nil
	return m, tickCmd()
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Digitype"))
	b.WriteString("\n\n")

	switch {
	case m.engine.AwaitingPrompt():
		b.WriteString(pendingStyle.Render("Custom Text Mode: type your text and press enter."))
	case m.engine.Prompt() == "":
		b.WriteString(pendingStyle.Render("Press ctrl+r to begin."))
	default:
		b.WriteString(m.renderPrompt())
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderInput())
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Time Left: %ds", m.engine.Remaining()))
	if m.engine.Paused() {
		b.WriteString("  [paused]")
	}
	b.WriteString("\n")

	if m.result != nil {
		b.WriteString(fmt.Sprintf("\nWPM: %.0f  Accuracy: %.2f%%\n", m.result.WPM, m.result.Accuracy))
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("ctrl+p pause · ctrl+r reset · ctrl+c quit"))
	return b.String()
}

func (m *Model) renderPrompt() string {
	styled := buildStyledRunes([]rune(m.engine.Prompt()), []rune(m.engine.Typed()))
	width := m.contentWidth()
	if width <= 0 {
		return renderStyledRunes(styled)
	}
	return wrapStyledRunes(styled, width)
}

func (m *Model) renderInput() string {
	line := "> " + m.input
	if !m.engine.OnTrack() {
		return offTrackStyle.Render(line)
	}
	return line
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	width := int(float64(m.width) * 0.70)
	if width < 1 {
		width = 1
	}
	return width
}

// Err returns the first fatal error hit by the screen, if any.
func (m *Model) Err() error { return m.err }
