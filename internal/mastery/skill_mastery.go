package mastery

const (
	// MaxLevel is the highest mastery level a skill can reach.
	MaxLevel = 8

	// MinLevel is the starting level.
	MinLevel = 1

	// MaxHistory is the number of recent results kept per skill.
	MaxHistory = 12
)

// Result is one recorded answer.
type Result struct {
	Correct   bool  `json:"correct"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// SkillStats holds the mastery record for a single skill.
type SkillStats struct {
	// Level is the current mastery level (1..MaxLevel).
	Level int `json:"level"`

	// Streak counts consecutive correct answers since the last miss or
	// level-up.
	Streak int `json:"streak"`

	// MistakeStreak counts consecutive misses since the last correct answer
	// or level-down.
	MistakeStreak int `json:"mistakeStreak"`

	// History holds the most recent results, oldest first.
	History []Result `json:"history"`
}

// NewSkillStats returns a fresh record at the starting level.
func NewSkillStats() SkillStats {
	return SkillStats{Level: MinLevel, History: []Result{}}
}

// CorrectCount returns the number of correct results in the history.
func (s SkillStats) CorrectCount() int {
	n := 0
	for _, r := range s.History {
		if r.Correct {
			n++
		}
	}
	return n
}

// Accuracy returns the share of correct results in the history, or 0 when
// the history is empty.
func (s SkillStats) Accuracy() float64 {
	if len(s.History) == 0 {
		return 0.0
	}
	return float64(s.CorrectCount()) / float64(len(s.History))
}

// AverageMs returns the mean response time over the history, or 0 when the
// history is empty.
func (s SkillStats) AverageMs() float64 {
	if len(s.History) == 0 {
		return 0.0
	}
	var sum int64
	for _, r := range s.History {
		sum += r.ElapsedMs
	}
	return float64(sum) / float64(len(s.History))
}
