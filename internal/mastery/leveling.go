package mastery

import "github.com/abhisek/lingoz/internal/skills"

const (
	targetBaseMs  = 12000
	targetDropMs  = 700
	targetFloorMs = 5200

	levelUpStreak   = 3
	levelDownStreak = 2
)

// TargetMs returns the response-time budget for a level. Faster answers
// are required as the level rises.
func TargetMs(level int) int64 {
	return clamp64(int64(targetBaseMs-level*targetDropMs), targetFloorMs, targetBaseMs)
}

// Record returns the stats after one more answer. It never mutates s.
//
// A correct answer that completes a streak of three within the target time
// raises the level (capped at MaxLevel) and restarts the streak even when
// the level is already maxed. A second consecutive miss lowers the level
// (floored at MinLevel) and restarts the mistake streak.
func (s SkillStats) Record(correct bool, elapsedMs int64) SkillStats {
	level := clampInt(s.Level, MinLevel, MaxLevel)

	history := make([]Result, 0, MaxHistory)
	prev := s.History
	if len(prev) >= MaxHistory {
		prev = prev[len(prev)-MaxHistory+1:]
	}
	history = append(history, prev...)
	history = append(history, Result{Correct: correct, ElapsedMs: elapsedMs})

	next := SkillStats{Level: level, History: history}
	if correct {
		next.Streak = s.Streak + 1
	} else {
		next.MistakeStreak = s.MistakeStreak + 1
	}

	if correct && next.Streak >= levelUpStreak && elapsedMs <= TargetMs(level) {
		next.Level = min(level+1, MaxLevel)
		next.Streak = 0
	}
	if !correct && next.MistakeStreak >= levelDownStreak {
		next.Level = max(level-1, MinLevel)
		next.MistakeStreak = 0
	}
	return next
}

// Update returns a copy of stats with skill's record advanced by one answer.
func Update(stats Stats, skill skills.Skill, correct bool, elapsedMs int64) Stats {
	next := stats.Clone()
	next[skill] = next.Get(skill).Record(correct, elapsedMs)
	return next
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

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
