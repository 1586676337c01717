package session

import (
	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/problemgen"
	"github.com/abhisek/lingoz/internal/skills"
)

// emptyHistoryAccuracy is the neutral prior used before a skill has any
// recorded answers.
const emptyHistoryAccuracy = 0.4

func priorAccuracy(s mastery.SkillStats) float64 {
	if len(s.History) == 0 {
		return emptyHistoryAccuracy
	}
	return s.Accuracy()
}

// SkillScore is the weakness score used by WeakestSkill: accuracy minus a
// small penalty for the current mistake streak, clamped to [0, 1].
func SkillScore(s mastery.SkillStats) float64 {
	penalty := min(0.15, float64(s.MistakeStreak)*0.05)
	return clampFloat(priorAccuracy(s)-penalty, 0, 1)
}

// SkillWeight is the sampling weight used by PickSkill. Inaccurate, shaky
// and under-practiced skills weigh more.
func SkillWeight(s mastery.SkillStats) float64 {
	w := max(0.2, 1-priorAccuracy(s))
	w += float64(min(2, s.MistakeStreak)) * 0.15
	if len(s.History) < 4 {
		w += 0.2
	}
	return w
}

// WeakestSkill returns the skill with the lowest SkillScore. Ties go to
// the skill that comes first in skills.All().
func WeakestSkill(stats mastery.Stats) skills.Skill {
	all := skills.All()
	weakest := all[0]
	best := SkillScore(stats.Get(weakest))
	for _, s := range all[1:] {
		if score := SkillScore(stats.Get(s)); score < best {
			best = score
			weakest = s
		}
	}
	return weakest
}

// PickSkill draws a skill with probability proportional to SkillWeight.
func PickSkill(stats mastery.Stats, rnd problemgen.Rand) skills.Skill {
	all := skills.All()
	weights := make([]float64, len(all))
	var total float64
	for i, s := range all {
		weights[i] = SkillWeight(stats.Get(s))
		total += weights[i]
	}

	roll := rnd.Float64() * total
	for i, w := range weights {
		roll -= w
		if roll <= 0 {
			return all[i]
		}
	}
	return all[0]
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
