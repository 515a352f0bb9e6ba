package session

// Event is a typed command consumed by the engine's single handling entry
// point. The presentation surface translates its own input (key handlers,
// tick timers) into these and never touches session state directly.
type Event interface {
	isEvent()
}

// Keystroke carries the full current input text after an edit.
type Keystroke struct {
	Text string
}

// Tick advances the countdown by one unit.
type Tick struct{}

// PauseToggled flips the paused flag. Input handling is unaffected.
type PauseToggled struct{}

// SubmitCustomText supplies the prompt for a custom-text session.
type SubmitCustomText struct {
	Text string
}

// Reset returns the engine to Idle and re-arms the timer.
type Reset struct{}

func (Keystroke) isEvent()        {}
func (Tick) isEvent()             {}
func (PauseToggled) isEvent()     {}
func (SubmitCustomText) isEvent() {}
func (Reset) isEvent()            {}
