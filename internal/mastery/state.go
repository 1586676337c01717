package mastery

import "github.com/abhisek/lingoz/internal/skills"

// Stats holds every skill's mastery record. Treat values as immutable:
// Update returns a new map.
type Stats map[skills.Skill]SkillStats

// NewStats returns fresh records for every skill.
func NewStats() Stats {
	s := make(Stats, len(skills.All()))
	for _, k := range skills.All() {
		s[k] = NewSkillStats()
	}
	return s
}

// Get returns the record for skill, or a fresh one if none exists.
func (s Stats) Get(skill skills.Skill) SkillStats {
	if st, ok := s[skill]; ok {
		return st
	}
	return NewSkillStats()
}

// Clone returns a deep copy.
func (s Stats) Clone() Stats {
	out := make(Stats, len(s))
	for k, v := range s {
		v.History = append([]Result{}, v.History...)
		out[k] = v
	}
	return out
}

// Normalize repairs a loaded record set: unknown skills are dropped, missing
// ones are created, levels are clamped, counters are non-negative and
// histories keep only the most recent MaxHistory results.
func Normalize(s Stats) Stats {
	out := NewStats()
	for _, k := range skills.All() {
		st, ok := s[k]
		if !ok {
			continue
		}
		st.Level = clampInt(st.Level, MinLevel, MaxLevel)
		st.Streak = max(st.Streak, 0)
		st.MistakeStreak = max(st.MistakeStreak, 0)
		if len(st.History) > MaxHistory {
			st.History = st.History[len(st.History)-MaxHistory:]
		}
		st.History = append([]Result{}, st.History...)
		out[k] = st
	}
	return out
}

// Summary aggregates recent results across skills.
type Summary struct {
	Attempts  int
	Correct   int
	Accuracy  float64
	AverageMs float64
}

// Overall summarizes the recent history of every skill.
func Overall(s Stats) Summary {
	var sum Summary
	var totalMs int64
	for _, k := range skills.All() {
		for _, r := range s[k].History {
			sum.Attempts++
			if r.Correct {
				sum.Correct++
			}
			totalMs += r.ElapsedMs
		}
	}
	if sum.Attempts > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Attempts)
		sum.AverageMs = float64(totalMs) / float64(sum.Attempts)
	}
	return sum
}
