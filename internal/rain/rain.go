// Package rain implements the word-rain minigame engine.
package rain

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/kvasha/digitype/internal/model"
	"github.com/kvasha/digitype/internal/timer"
)

// Defaults mirror the three periodic actions of the game: one countdown
// tick per second, one spawn per second, one fall step every 50ms.
const (
	DefaultSpawnInterval = 1000 * time.Millisecond
	DefaultFallInterval  = 50 * time.Millisecond
)

// Vocabulary is the fixed word pool targets are drawn from.
var Vocabulary = []string{
	"apple", "banana", "cherry", "date", "elderberry", "fig", "grape", "honeydew",
}

// Target is one falling word. Positions are field cells: Col is fixed at
// spawn time, Row advances by one per fall step.
type Target struct {
	Word string
	Col  int
	Row  int
}

// State is the game lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateEnded
)

// ProgressRecorder persists a finished game. Satisfied by *store.Store.
type ProgressRecorder interface {
	RecordProgress(ctx context.Context, userID int64, wpm, accuracy float64, date time.Time) error
}

// Engine owns the word-rain game state: active targets in insertion order,
// the score, and the countdown. Spawn and fall are driven externally at
// their own cadences; pausing freezes all three together.
type Engine struct {
	width    int
	height   int
	recorder ProgressRecorder
	userID   int64
	log      *slog.Logger
	now      func() time.Time
	rnd      *rand.Rand

	state     State
	targets   []Target
	score     int
	countdown timer.Countdown
}

// New constructs an engine for a field of width columns and height rows.
// Targets are removed unscored once their row passes height.
func New(width, height int, recorder ProgressRecorder, userID int64, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		width:    width,
		height:   height,
		recorder: recorder,
		userID:   userID,
		log:      log,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Resize adjusts the field to the presentation surface's dimensions.
// Existing targets keep their positions; out-of-bounds ones are discarded
// by the next fall step.
func (e *Engine) Resize(width, height int) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
}

// Start clears score and targets and begins a game of the given duration.
func (e *Engine) Start(durationSeconds int) {
	e.targets = nil
	e.score = 0
	e.countdown.Start(durationSeconds)
	e.state = StateRunning
}

// Spawn places a random word at a random column on the top row. Called on
// the spawn cadence; a no-op while paused or not running.
func (e *Engine) Spawn() {
	if e.state != StateRunning || e.countdown.Paused() {
		return
	}
	word := Vocabulary[e.rnd.Intn(len(Vocabulary))]
	col := 0
	if max := e.width - len(word); max > 0 {
		col = e.rnd.Intn(max)
	}
	e.targets = append(e.targets, Target{Word: word, Col: col, Row: 0})
}

// Fall moves every target down one row and discards targets past the
// bottom of the field. A missed word is not an error and does not score.
func (e *Engine) Fall() {
	if e.state != StateRunning || e.countdown.Paused() {
		return
	}
	kept := e.targets[:0]
	for _, t := range e.targets {
		t.Row++
		if t.Row > e.height {
			continue
		}
		kept = append(kept, t)
	}
	e.targets = kept
}

// Match removes the first active target whose word equals text and
// increments the score. It reports whether anything matched; the caller
// clears the input line on a hit.
func (e *Engine) Match(text string) bool {
	if e.state != StateRunning {
		return false
	}
	for i, t := range e.targets {
		if t.Word == text {
			e.targets = append(e.targets[:i], e.targets[i+1:]...)
			e.score++
			return true
		}
	}
	return false
}

// Tick advances the countdown. On expiry the game ends: WPM is derived
// from the score over the full duration and accuracy is fixed at 100,
// since word-rain has no partial-credit notion.
func (e *Engine) Tick() *model.Result {
	if e.state != StateRunning {
		return nil
	}
	e.countdown.Tick()
	if !e.countdown.Expired() {
		return nil
	}
	e.state = StateEnded
	wpm := 0.0
	if d := e.countdown.Duration(); d > 0 {
		wpm = float64(e.score) * (60.0 / float64(d))
	}
	result := &model.Result{WPM: wpm, Accuracy: 100}
	if e.recorder != nil {
		if err := e.recorder.RecordProgress(context.Background(), e.userID, result.WPM, result.Accuracy, e.now()); err != nil {
			e.log.Error("failed to save word rain result", "error", err)
		}
	}
	return result
}

// TogglePause freezes or resumes spawn, fall, and countdown together.
func (e *Engine) TogglePause() bool {
	if e.state != StateRunning {
		return e.countdown.Paused()
	}
	return e.countdown.Toggle()
}

// Reset clears targets and score and returns to Idle.
func (e *Engine) Reset() {
	e.targets = nil
	e.score = 0
	e.state = StateIdle
	e.countdown.Reset()
}

// Targets returns the active targets in insertion order.
func (e *Engine) Targets() []Target {
	out := make([]Target, len(e.targets))
	copy(out, e.targets)
	return out
}

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// State returns the lifecycle position.
func (e *Engine) State() State { return e.state }

// Remaining returns the countdown's remaining seconds.
func (e *Engine) Remaining() int { return e.countdown.Remaining() }

// Paused reports whether the game is frozen.
func (e *Engine) Paused() bool { return e.countdown.Paused() }
