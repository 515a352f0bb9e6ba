package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kvasha/digitype/internal/achievement"
	"github.com/kvasha/digitype/internal/model"
	"github.com/kvasha/digitype/internal/timer"
)

// State is the session lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateExpired
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateExpired:
		return "expired"
	}
	return "unknown"
}

// ProgressRecorder persists a finished session. Satisfied by *store.Store.
type ProgressRecorder interface {
	RecordProgress(ctx context.Context, userID int64, wpm, accuracy float64, date time.Time) error
}

// Engine orchestrates one typing session: prompt selection, live input,
// completion and expiry detection, metric computation, and persistence.
// It is single-threaded; the presentation surface feeds it events from its
// own loop.
type Engine struct {
	cfg          model.SessionConfig
	picker       *Picker
	recorder     ProgressRecorder
	achievements *achievement.Set
	userID       int64
	log          *slog.Logger
	now          func() time.Time

	state          State
	prompt         string
	typed          string
	awaitingPrompt bool
	lines          []string
	lineIndex      int
	countdown      timer.Countdown
	startedAt      time.Time
}

// New constructs an engine for one user. recorder may be nil when results
// should not be persisted (e.g. an anonymous warmup).
func New(cfg model.SessionConfig, picker *Picker, recorder ProgressRecorder, achievements *achievement.Set, userID int64, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:          cfg,
		picker:       picker,
		recorder:     recorder,
		achievements: achievements,
		userID:       userID,
		log:          log,
		now:          time.Now,
	}
}

// UseTextSource replaces prompt selection with successive lines from an
// uploaded file. Each exact line match advances to the next line; matching
// the last line completes the session.
func (e *Engine) UseTextSource(lines []string) error {
	if len(lines) == 0 {
		return ErrEmptyPromptPool
	}
	e.lines = lines
	return nil
}

// Start selects the prompt for the configured mode and transitions to
// Running. In custom-text mode the prompt stays empty until a
// SubmitCustomText event arrives.
func (e *Engine) Start() error {
	e.typed = ""
	e.lineIndex = 0
	e.awaitingPrompt = false

	switch {
	case len(e.lines) > 0:
		e.prompt = e.lines[0]
	case e.cfg.Mode == model.ModeTimedTest:
		prompt, err := e.picker.Pick(e.cfg.Difficulty)
		if err != nil {
			return fmt.Errorf("failed to pick prompt: %w", err)
		}
		e.prompt = prompt
	case e.cfg.Mode == model.ModePractice:
		e.prompt = practicePrompt
	case e.cfg.Mode == model.ModeCustomText:
		e.prompt = ""
		e.awaitingPrompt = true
	default:
		return fmt.Errorf("unknown mode %q", e.cfg.Mode)
	}

	e.countdown.Start(e.cfg.DurationSeconds)
	e.startedAt = e.now()
	e.state = StateRunning
	return nil
}

// Handle is the single entry point for session events. It returns a
// non-nil Result when the event finished the session.
func (e *Engine) Handle(ev Event) (*model.Result, error) {
	switch ev := ev.(type) {
	case Keystroke:
		return e.onInput(ev.Text), nil
	case Tick:
		return e.onTick(), nil
	case PauseToggled:
		if e.state == StateRunning {
			e.countdown.Toggle()
		}
		return nil, nil
	case SubmitCustomText:
		e.setCustomText(ev.Text)
		return nil, nil
	case Reset:
		e.reset()
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown event %T", ev)
	}
}

func (e *Engine) onInput(text string) *model.Result {
	if e.state != StateRunning {
		// Input is locked after completion or expiry until reset.
		return nil
	}
	e.typed = text
	if e.awaitingPrompt || e.prompt == "" {
		return nil
	}
	if e.typed != e.prompt {
		return nil
	}
	if len(e.lines) > 0 && e.lineIndex+1 < len(e.lines) {
		e.lineIndex++
		e.prompt = e.lines[e.lineIndex]
		e.typed = ""
		return nil
	}
	return e.finish(StateCompleted)
}

func (e *Engine) onTick() *model.Result {
	if e.state != StateRunning {
		return nil
	}
	e.countdown.Tick()
	if e.countdown.Expired() {
		return e.finish(StateExpired)
	}
	return nil
}

func (e *Engine) setCustomText(text string) {
	if e.state != StateRunning || !e.awaitingPrompt {
		return
	}
	if text == "" {
		return
	}
	e.prompt = text
	e.typed = ""
	e.awaitingPrompt = false
}

func (e *Engine) finish(final State) *model.Result {
	elapsed := e.countdown.Elapsed()
	wpm := WPM(e.typed, elapsed)
	accuracy := Accuracy(e.typed, e.prompt)
	e.state = final

	if e.achievements != nil {
		e.achievements.Evaluate(wpm, accuracy)
	}
	if e.recorder != nil {
		if err := e.recorder.RecordProgress(context.Background(), e.userID, wpm, accuracy, e.now()); err != nil {
			e.log.Error("failed to save progress", "error", err)
		}
	}
	return &model.Result{WPM: wpm, Accuracy: accuracy}
}

func (e *Engine) reset() {
	e.state = StateIdle
	e.typed = ""
	e.prompt = ""
	e.lineIndex = 0
	e.awaitingPrompt = false
	e.countdown.Reset()
}

// State returns the lifecycle position.
func (e *Engine) State() State { return e.state }

// Prompt returns the current reference text.
func (e *Engine) Prompt() string { return e.prompt }

// Typed returns the current input text.
func (e *Engine) Typed() string { return e.typed }

// AwaitingPrompt reports whether a custom-text session still needs its
// prompt submitted.
func (e *Engine) AwaitingPrompt() bool { return e.awaitingPrompt }

// OnTrack reports whether the prompt starts with the typed text. The
// presentation surface flags the input in red when this is false.
func (e *Engine) OnTrack() bool {
	return strings.HasPrefix(e.prompt, e.typed)
}

// Remaining returns the countdown's remaining seconds.
func (e *Engine) Remaining() int { return e.countdown.Remaining() }

// Paused reports whether the countdown is frozen.
func (e *Engine) Paused() bool { return e.countdown.Paused() }
