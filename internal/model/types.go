// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Mode selects how a typing session picks its prompt.
type Mode string

const (
	ModeTimedTest  Mode = "timed"
	ModePractice   Mode = "practice"
	ModeCustomText Mode = "custom"
)

// ParseMode maps a user-supplied string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTimedTest, ModePractice, ModeCustomText:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (expected timed, practice, or custom)", s)
}

// Difficulty selects the phrase pool for timed tests.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a user-supplied string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty %q (expected easy, medium, or hard)", s)
}

// SessionConfig defines the settings for one typing session.
type SessionConfig struct {
	DurationSeconds int
	Mode            Mode
	Difficulty      Difficulty
}

// User is a stored account. The password hash never leaves the store.
type User struct {
	ID       int64
	Username string
	Email    string
}

// ProgressRecord is one persisted session outcome.
type ProgressRecord struct {
	ID       int64
	UserID   int64
	WPM      float64
	Accuracy float64
	Date     time.Time
}

// Result is what a finished session reports to the presentation surface.
type Result struct {
	WPM      float64
	Accuracy float64
}

// LeaderboardRow is one ranked entry: a user's best WPM with the accuracy
// and date of that best session.
type LeaderboardRow struct {
	Username string
	MaxWPM   float64
	Accuracy float64
	Date     time.Time
}

// ProgressFilter bounds a progress query. From and To are inclusive dates.
type ProgressFilter struct {
	UserID int64
	From   time.Time
	To     time.Time
}
