package session

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/kvasha/digitype/internal/model"
)

// ErrEmptyPromptPool is returned when a difficulty has no phrases to pick
// from or an uploaded text source contained no lines.
var ErrEmptyPromptPool = errors.New("prompt pool is empty")

// promptRepeat stretches a single phrase so a timed test cannot run out of
// text before the clock does.
const promptRepeat = 10

// practicePrompt is the fixed prompt shown in practice mode.
const practicePrompt = "Practice Mode: Type anything you want."

var phrasePools = map[model.Difficulty][]string{
	model.DifficultyEasy: {
		"The quick brown fox jumps over the lazy dog.",
		"A journey of a thousand miles begins with a single step.",
		"To be or not to be, that is the question.",
	},
	model.DifficultyMedium: {
		"All that glitters is not gold.",
		"A picture is worth a thousand words.",
		"Actions speak louder than words.",
	},
	model.DifficultyHard: {
		"Beauty is in the eye of the beholder.",
		"Better late than never.",
		"Birds of a feather flock together.",
	},
}

// Picker selects prompt text for timed tests.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return NewPickerWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPickerWithRand returns a Picker using the provided source. Tests pass
// a fixed seed.
func NewPickerWithRand(rnd *rand.Rand) *Picker {
	return &Picker{rnd: rnd}
}

// Pick returns a repeated random phrase for the difficulty.
func (p *Picker) Pick(difficulty model.Difficulty) (string, error) {
	pool := phrasePools[difficulty]
	if len(pool) == 0 {
		return "", ErrEmptyPromptPool
	}
	phrase := pool[p.rnd.Intn(len(pool))]
	return strings.Repeat(phrase, promptRepeat), nil
}
