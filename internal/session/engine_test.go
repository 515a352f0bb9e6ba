package session

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/kvasha/digitype/internal/achievement"
	"github.com/kvasha/digitype/internal/model"
)

type recordedProgress struct {
	userID   int64
	wpm      float64
	accuracy float64
	date     time.Time
}

type fakeRecorder struct {
	records []recordedProgress
	err     error
}

func (f *fakeRecorder) RecordProgress(_ context.Context, userID int64, wpm, accuracy float64, date time.Time) error {
	f.records = append(f.records, recordedProgress{userID: userID, wpm: wpm, accuracy: accuracy, date: date})
	return f.err
}

func newTestEngine(t *testing.T, cfg model.SessionConfig, recorder ProgressRecorder) *Engine {
	t.Helper()
	picker := NewPickerWithRand(rand.New(rand.NewSource(1)))
	engine := New(cfg, picker, recorder, achievement.NewSet(), 1, nil)
	engine.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return engine
}

func TestEngineTimedTestPicksPrompt(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.ModeTimedTest,
		Difficulty:      model.DifficultyEasy,
	}, nil)
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if engine.State() != StateRunning {
		t.Fatalf("expected running state, got %v", engine.State())
	}
	if engine.Prompt() == "" {
		t.Fatalf("expected non-empty prompt in timed mode")
	}
	if engine.Remaining() != 30 {
		t.Fatalf("expected 30 seconds remaining, got %d", engine.Remaining())
	}
}

func TestEnginePracticePrompt(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.ModePractice,
	}, nil)
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if engine.Prompt() != practicePrompt {
		t.Fatalf("expected practice prompt, got %q", engine.Prompt())
	}
}

func TestEngineUnknownMode(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.Mode("bogus"),
	}, nil)
	if err := engine.Start(); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestEngineCompletionComputesAndPersistsResult(t *testing.T) {
	recorder := &fakeRecorder{}
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.ModeTimedTest,
		Difficulty:      model.DifficultyEasy,
	}, recorder)
	if err := engine.UseTextSource([]string{"hello world"}); err != nil {
		t.Fatalf("use text source: %v", err)
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := engine.Handle(Tick{}); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	result, err := engine.Handle(Keystroke{Text: "hello world"})
	if err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if result == nil {
		t.Fatalf("expected result on exact prompt match")
	}
	if engine.State() != StateCompleted {
		t.Fatalf("expected completed state, got %v", engine.State())
	}
	if math.Abs(result.WPM-60) > 1e-9 {
		t.Fatalf("expected 60 WPM for 2 words in 2s, got %v", result.WPM)
	}
	if math.Abs(result.Accuracy-100) > 1e-9 {
		t.Fatalf("expected 100%% accuracy, got %v", result.Accuracy)
	}
	if len(recorder.records) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(recorder.records))
	}
	rec := recorder.records[0]
	if rec.userID != 1 || math.Abs(rec.wpm-60) > 1e-9 || math.Abs(rec.accuracy-100) > 1e-9 {
		t.Fatalf("unexpected persisted record: %+v", rec)
	}
}

func TestEngineEvaluatesAchievementsOnFinish(t *testing.T) {
	achievements := achievement.NewSet()
	picker := NewPickerWithRand(rand.New(rand.NewSource(1)))
	engine := New(model.SessionConfig{DurationSeconds: 30, Mode: model.ModeTimedTest}, picker, nil, achievements, 1, nil)
	if err := engine.UseTextSource([]string{"a b c d"}); err != nil {
		t.Fatalf("use text source: %v", err)
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if _, err := engine.Handle(Tick{}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if _, err := engine.Handle(Keystroke{Text: "a b c d"}); err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if !achievements.Achieved(achievement.FirstTest) {
		t.Fatalf("expected First Test after completion")
	}
	if !achievements.Achieved(achievement.SpeedDemon) {
		t.Fatalf("expected Speed Demon at 240 WPM")
	}
	if !achievements.Achieved(achievement.AccuracyMaster) {
		t.Fatalf("expected Accuracy Master at 100%% accuracy")
	}
}

func TestEngineMultiLineAdvance(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.ModeTimedTest,
	}, nil)
	if err := engine.UseTextSource([]string{"first line", "second line"}); err != nil {
		t.Fatalf("use text source: %v", err)
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	result, err := engine.Handle(Keystroke{Text: "first line"})
	if err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result before the last line")
	}
	if engine.Prompt() != "second line" {
		t.Fatalf("expected second line as prompt, got %q", engine.Prompt())
	}
	if engine.Typed() != "" {
		t.Fatalf("expected input cleared on line advance, got %q", engine.Typed())
	}
	result, err = engine.Handle(Keystroke{Text: "second line"})
	if err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if result == nil || engine.State() != StateCompleted {
		t.Fatalf("expected completion on last line, state %v", engine.State())
	}
}

func TestEngineExpiry(t *testing.T) {
	recorder := &fakeRecorder{}
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 2,
		Mode:            model.ModePractice,
	}, recorder)
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if _, err := engine.Handle(Keystroke{Text: "Prac"}); err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	result, err := engine.Handle(Tick{})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result with time left")
	}
	result, err = engine.Handle(Tick{})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result == nil {
		t.Fatalf("expected result on expiry")
	}
	if engine.State() != StateExpired {
		t.Fatalf("expected expired state, got %v", engine.State())
	}
	if len(recorder.records) != 1 {
		t.Fatalf("expected expired session to be persisted")
	}
}

func TestEngineLocksInputAfterFinish(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.ModeTimedTest,
	}, nil)
	if err := engine.UseTextSource([]string{"done"}); err != nil {
		t.Fatalf("use text source: %v", err)
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if _, err := engine.Handle(Keystroke{Text: "done"}); err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if _, err := engine.Handle(Keystroke{Text: "more typing"}); err != nil {
		t.Fatalf("keystroke after finish: %v", err)
	}
	if engine.Typed() != "done" {
		t.Fatalf("expected input locked after completion, got %q", engine.Typed())
	}
}

func TestEnginePauseFreezesCountdown(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 10,
		Mode:            model.ModePractice,
	}, nil)
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if _, err := engine.Handle(PauseToggled{}); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := engine.Handle(Tick{}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if engine.Remaining() != 10 {
		t.Fatalf("expected remaining unchanged while paused, got %d", engine.Remaining())
	}
	if _, err := engine.Handle(PauseToggled{}); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := engine.Handle(Tick{}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if engine.Remaining() != 9 {
		t.Fatalf("expected remaining to drop by one after resume, got %d", engine.Remaining())
	}
}

func TestEngineCustomText(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.ModeCustomText,
	}, nil)
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if !engine.AwaitingPrompt() {
		t.Fatalf("expected engine to await a custom prompt")
	}
	result, err := engine.Handle(Keystroke{Text: "typing into the void"})
	if err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if result != nil {
		t.Fatalf("expected no completion without a prompt")
	}
	if _, err := engine.Handle(SubmitCustomText{Text: "custom prompt"}); err != nil {
		t.Fatalf("submit custom text: %v", err)
	}
	if engine.AwaitingPrompt() {
		t.Fatalf("expected awaiting flag cleared after submit")
	}
	if engine.Prompt() != "custom prompt" {
		t.Fatalf("expected custom prompt, got %q", engine.Prompt())
	}
	if engine.Typed() != "" {
		t.Fatalf("expected input cleared after submit, got %q", engine.Typed())
	}
	result, err = engine.Handle(Keystroke{Text: "custom prompt"})
	if err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if result == nil || engine.State() != StateCompleted {
		t.Fatalf("expected completion on custom prompt match")
	}
}

func TestEngineOnTrack(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.ModePractice,
	}, nil)
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if _, err := engine.Handle(Keystroke{Text: "Prac"}); err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if !engine.OnTrack() {
		t.Fatalf("expected on-track for matching prefix")
	}
	if _, err := engine.Handle(Keystroke{Text: "Prax"}); err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if engine.OnTrack() {
		t.Fatalf("expected off-track for mismatching prefix")
	}
}

func TestEngineReset(t *testing.T) {
	engine := newTestEngine(t, model.SessionConfig{
		DurationSeconds: 30,
		Mode:            model.ModePractice,
	}, nil)
	if err := engine.Start(); err != nil {
		t.Fatalf("start engine: %v", err)
	}
	if _, err := engine.Handle(Keystroke{Text: "Pr"}); err != nil {
		t.Fatalf("keystroke: %v", err)
	}
	if _, err := engine.Handle(Reset{}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if engine.State() != StateIdle {
		t.Fatalf("expected idle state after reset, got %v", engine.State())
	}
	if engine.Typed() != "" || engine.Prompt() != "" {
		t.Fatalf("expected cleared prompt and input after reset")
	}
}
