// Package session implements the typing session engine.
package session

import "strings"

// WordCount counts whitespace-separated words in the typed text.
func WordCount(typed string) int {
	return len(strings.Fields(typed))
}

// WPM computes words per minute for a session. Zero elapsed time yields
// zero rather than a division blowup.
func WPM(typed string, elapsedSeconds int) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	return float64(WordCount(typed)) * (60.0 / float64(elapsedSeconds))
}

// Accuracy returns the percentage of position-wise matching characters
// between typed and prompt, relative to the prompt length. Characters typed
// past the end of the prompt are not counted either way; an empty prompt
// scores zero.
func Accuracy(typed, prompt string) float64 {
	promptRunes := []rune(prompt)
	if len(promptRunes) == 0 {
		return 0
	}
	typedRunes := []rune(typed)
	correct := 0
	for i, r := range typedRunes {
		if i >= len(promptRunes) {
			break
		}
		if r == promptRunes[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(promptRunes)) * 100
}
