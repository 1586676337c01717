package session

import "fmt"

// Settings are the learner's session tunables.
type Settings struct {
	QuestionCount    int `json:"questionCount"`
	TimeLimitSeconds int `json:"timeLimitSeconds"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{QuestionCount: 10, TimeLimitSeconds: 20}
}

// ControlID names an adjustable setting.
type ControlID string

const (
	ControlQuestionCount ControlID = "questionCount"
	ControlTimeLimit     ControlID = "timeLimitSeconds"
)

// Control describes how one setting may be adjusted.
type Control struct {
	ID    ControlID
	Label string
	Hint  string
	Min   int
	Max   int
	Step  int
	Unit  string

	get func(Settings) int
	set func(*Settings, int)
}

// Value returns the control's current value in s.
func (c Control) Value(s Settings) int { return c.get(s) }

// Format renders a value with the control's unit.
func (c Control) Format(v int) string { return fmt.Sprintf("%d%s", v, c.Unit) }

// Adjust moves the control by delta steps, clamped to [Min, Max].
func (c Control) Adjust(s Settings, delta int) Settings {
	c.set(&s, clampInt(c.get(s)+delta*c.Step, c.Min, c.Max))
	return s
}

var controls = []Control{
	{
		ID:    ControlQuestionCount,
		Label: "Questions per session",
		Hint:  "Default is 10",
		Min:   5,
		Max:   30,
		Step:  1,
		get:   func(s Settings) int { return s.QuestionCount },
		set:   func(s *Settings, v int) { s.QuestionCount = v },
	},
	{
		ID:    ControlTimeLimit,
		Label: "Time per question",
		Hint:  "More time for reading and recall",
		Min:   10,
		Max:   60,
		Step:  5,
		Unit:  "s",
		get:   func(s Settings) int { return s.TimeLimitSeconds },
		set:   func(s *Settings, v int) { s.TimeLimitSeconds = v },
	},
}

// Controls returns every adjustable setting in display order.
func Controls() []Control {
	return append([]Control(nil), controls...)
}

// LookupControl finds a control by id.
func LookupControl(id ControlID) (Control, bool) {
	for _, c := range controls {
		if c.ID == id {
			return c, true
		}
	}
	return Control{}, false
}

// NormalizeSettings clamps every value into its control's range.
func NormalizeSettings(s Settings) Settings {
	for _, c := range controls {
		c.set(&s, clampInt(c.get(s), c.Min, c.Max))
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
