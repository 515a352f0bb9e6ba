package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kvasha/digitype/internal/model"
	"github.com/kvasha/digitype/internal/rain"
	"github.com/kvasha/digitype/internal/sound"
)

// The three periodic actions run on independent cadences: targets spawn
// once a second, fall every 50ms, and the countdown ticks once a second.
type (
	spawnMsg    time.Time
	fallMsg     time.Time
	rainTickMsg time.Time
)

var (
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	scoreStyle  = lipgloss.NewStyle().Bold(true)
)

// RainModel drives the word-rain screen.
type RainModel struct {
	engine *rain.Engine
	sound  *sound.Player
	input  textinput.Model

	width  int
	height int

	duration      int
	spawnInterval time.Duration
	fallInterval  time.Duration
	result        *model.Result
}

// NewRainModel constructs the word-rain screen. The game starts on Init.
// Zero intervals fall back to the engine defaults.
func NewRainModel(engine *rain.Engine, player *sound.Player, durationSeconds int, spawnInterval, fallInterval time.Duration) *RainModel {
	if spawnInterval <= 0 {
		spawnInterval = rain.DefaultSpawnInterval
	}
	if fallInterval <= 0 {
		fallInterval = rain.DefaultFallInterval
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Focus()
	return &RainModel{
		engine:        engine,
		sound:         player,
		input:         input,
		duration:      durationSeconds,
		spawnInterval: spawnInterval,
		fallInterval:  fallInterval,
	}
}

// Init implements tea.Model.
func (m *RainModel) Init() tea.Cmd {
	m.engine.Start(m.duration)
	return tea.Batch(m.spawnCmd(), m.fallCmd(), rainTickCmd(), textinput.Blink)
}

func (m *RainModel) spawnCmd() tea.Cmd {
	return tea.Tick(m.spawnInterval, func(t time.Time) tea.Msg { return spawnMsg(t) })
}

func (m *RainModel) fallCmd() tea.Cmd {
	return tea.Tick(m.fallInterval, func(t time.Time) tea.Msg { return fallMsg(t) })
}

func rainTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return rainTickMsg(t) })
}

// Update implements tea.Model.
func (m *RainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.engine.Resize(msg.Width, m.fieldHeight())
		return m, nil
	case spawnMsg:
		m.engine.Spawn()
		if m.engine.State() == rain.StateRunning {
			return m, m.spawnCmd()
		}
		return m, nil
	case fallMsg:
		m.engine.Fall()
		if m.engine.State() == rain.StateRunning {
			return m, m.fallCmd()
		}
		return m, nil
	case rainTickMsg:
		if result := m.engine.Tick(); result != nil {
			m.result = result
			m.sound.Play(sound.CueComplete)
			return m, nil
		}
		return m, rainTickCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *RainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyCtrlP:
		m.engine.TogglePause()
		return m, nil
	case tea.KeyCtrlR:
		m.result = nil
		m.input.Reset()
		m.engine.Reset()
		m.engine.Start(m.duration)
		return m, tea.Batch(m.spawnCmd(), m.fallCmd(), rainTickCmd())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.sound.Play(sound.CueKeyPress)
	if m.engine.Match(strings.TrimSpace(m.input.Value())) {
		m.input.Reset()
	}
	return m, cmd
}

// View implements tea.Model.
func (m *RainModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Word Rain"))
	b.WriteString("\n")
	b.WriteString(m.renderField())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(scoreStyle.Render(fmt.Sprintf("Score: %d", m.engine.Score())))
	b.WriteString(fmt.Sprintf("  Time Left: %ds", m.engine.Remaining()))
	if m.engine.Paused() {
		b.WriteString("  [paused]")
	}
	if m.result != nil {
		b.WriteString(fmt.Sprintf("\n\nGame Over! Score: %d, WPM: %.0f\n", m.engine.Score(), m.result.WPM))
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("ctrl+p pause · ctrl+r reset · ctrl+c quit"))
	return b.String()
}

func (m *RainModel) renderField() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.fieldHeight()
	if height <= 0 {
		height = 20
	}

	rows := make([][]rune, height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(" ", width))
	}
	for _, t := range m.engine.Targets() {
		if t.Row < 0 || t.Row >= height {
			continue
		}
		for i, r := range t.Word {
			col := t.Col + i
			if col < 0 || col >= width {
				break
			}
			rows[t.Row][col] = r
		}
	}

	var b strings.Builder
	for y, row := range rows {
		if y > 0 {
			b.WriteRune('\n')
		}
		b.WriteString(targetStyle.Render(string(row)))
	}
	return b.String()
}

// fieldHeight reserves lines for the title, input, status, and footer.
func (m *RainModel) fieldHeight() int {
	if m.height == 0 {
		return 20
	}
	height := m.height - 7
	if height < 5 {
		height = 5
	}
	return height
}
