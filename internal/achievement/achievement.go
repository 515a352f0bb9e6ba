// Package achievement tracks milestone flags for completed sessions.
package achievement

// Achievement names. The set is fixed; flags are monotonic booleans that
// never reset once earned.
const (
	FirstTest      = "First Test"
	SpeedDemon     = "Speed Demon"
	AccuracyMaster = "Accuracy Master"
)

const (
	speedDemonWPM     = 100
	accuracyMasterPct = 95
)

// Status is one achievement flag with its display metadata.
type Status struct {
	Name        string
	Description string
	Achieved    bool
}

// Set holds the fixed achievement flags for one user.
type Set struct {
	statuses []Status
}

// NewSet returns the fixed achievement set with no flags earned.
func NewSet() *Set {
	return &Set{statuses: []Status{
		{Name: FirstTest, Description: "Complete your first typing test"},
		{Name: SpeedDemon, Description: "Reach 100 WPM"},
		{Name: AccuracyMaster, Description: "Reach 95% accuracy"},
	}}
}

// Evaluate updates flags from a completed session. First Test is earned by
// any completed session; re-earning is an idempotent no-op since flags only
// ever move from false to true.
func (s *Set) Evaluate(wpm, accuracy float64) {
	s.mark(FirstTest)
	if wpm >= speedDemonWPM {
		s.mark(SpeedDemon)
	}
	if accuracy >= accuracyMasterPct {
		s.mark(AccuracyMaster)
	}
}

// Mark sets the named flag without evaluating thresholds. Used when
// restoring persisted flags.
func (s *Set) Mark(name string) {
	s.mark(name)
}

func (s *Set) mark(name string) {
	for i := range s.statuses {
		if s.statuses[i].Name == name {
			s.statuses[i].Achieved = true
			return
		}
	}
}

// Statuses returns a copy of the flags in their fixed order.
func (s *Set) Statuses() []Status {
	out := make([]Status, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// Achieved reports whether the named flag is earned.
func (s *Set) Achieved(name string) bool {
	for _, st := range s.statuses {
		if st.Name == name {
			return st.Achieved
		}
	}
	return false
}
