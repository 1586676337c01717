package session

import (
	"math"
	"math/rand"
	"testing"

	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/skills"
)

// fixedRand returns the same Float64 every time.
type fixedRand float64

func (f fixedRand) Intn(n int) int    { return 0 }
func (f fixedRand) Float64() float64 { return float64(f) }

func history(correct, wrong int) []mastery.Result {
	var h []mastery.Result
	for i := 0; i < correct; i++ {
		h = append(h, mastery.Result{Correct: true, ElapsedMs: 1000})
	}
	for i := 0; i < wrong; i++ {
		h = append(h, mastery.Result{Correct: false, ElapsedMs: 1000})
	}
	return h
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSkillScore(t *testing.T) {
	tests := []struct {
		name  string
		stats mastery.SkillStats
		want  float64
	}{
		{"empty uses prior", mastery.SkillStats{}, 0.4},
		{"accuracy", mastery.SkillStats{History: history(3, 1)}, 0.75},
		{"penalty", mastery.SkillStats{History: history(3, 1), MistakeStreak: 2}, 0.65},
		{"penalty capped", mastery.SkillStats{History: history(3, 1), MistakeStreak: 9}, 0.60},
		{"clamped at zero", mastery.SkillStats{History: history(0, 4), MistakeStreak: 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SkillScore(tt.stats); !approx(got, tt.want) {
				t.Errorf("SkillScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSkillWeight(t *testing.T) {
	tests := []struct {
		name  string
		stats mastery.SkillStats
		want  float64
	}{
		{"empty", mastery.SkillStats{}, 0.6 + 0.2},
		{"perfect floors at 0.2", mastery.SkillStats{History: history(4, 0)}, 0.2},
		{"mistakes boost", mastery.SkillStats{History: history(2, 2), MistakeStreak: 2}, 0.5 + 0.3},
		{"mistake boost capped", mastery.SkillStats{History: history(2, 2), MistakeStreak: 5}, 0.5 + 0.3},
		{"few attempts", mastery.SkillStats{History: history(3, 0)}, 0.2 + 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SkillWeight(tt.stats); !approx(got, tt.want) {
				t.Errorf("SkillWeight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeakestSkill_FreshStatsPicksFirst(t *testing.T) {
	if got := WeakestSkill(mastery.NewStats()); got != skills.Vocab {
		t.Errorf("WeakestSkill = %s, want vocab", got)
	}
}

func TestWeakestSkill_LowestScoreWins(t *testing.T) {
	stats := mastery.NewStats()
	stats[skills.Vocab] = mastery.SkillStats{Level: 1, History: history(4, 0)}
	stats[skills.Grammar] = mastery.SkillStats{Level: 1, History: history(1, 3)}
	stats[skills.Phrases] = mastery.SkillStats{Level: 1, History: history(2, 2)}
	stats[skills.Comprehension] = mastery.SkillStats{Level: 1, History: history(1, 3), MistakeStreak: 1}

	if got := WeakestSkill(stats); got != skills.Comprehension {
		t.Errorf("WeakestSkill = %s, want comprehension", got)
	}
}

func TestWeakestSkill_NeverBeatenByLowerScore(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		stats := mastery.NewStats()
		for _, s := range skills.All() {
			stats[s] = mastery.SkillStats{
				Level:         1,
				History:       history(rnd.Intn(6), rnd.Intn(6)),
				MistakeStreak: rnd.Intn(4),
			}
		}
		weakest := WeakestSkill(stats)
		ws := SkillScore(stats[weakest])
		for _, s := range skills.All() {
			if SkillScore(stats[s]) < ws {
				t.Fatalf("WeakestSkill chose %s (%.3f) but %s scores %.3f", weakest, ws, s, SkillScore(stats[s]))
			}
		}
	}
}

func TestPickSkill_Roulette(t *testing.T) {
	// Fresh stats weigh every skill 0.8, so each owns a quarter of the wheel.
	stats := mastery.NewStats()
	tests := []struct {
		roll float64
		want skills.Skill
	}{
		{0.0, skills.Vocab},
		{0.24, skills.Vocab},
		{0.26, skills.Grammar},
		{0.6, skills.Phrases},
		{0.99, skills.Comprehension},
	}
	for _, tt := range tests {
		if got := PickSkill(stats, fixedRand(tt.roll)); got != tt.want {
			t.Errorf("PickSkill(roll=%v) = %s, want %s", tt.roll, got, tt.want)
		}
	}
}

func TestPickSkill_FavorsWeakSkills(t *testing.T) {
	stats := mastery.NewStats()
	for _, s := range skills.All() {
		stats[s] = mastery.SkillStats{Level: 1, History: history(8, 0)}
	}
	stats[skills.Phrases] = mastery.SkillStats{Level: 1, History: history(0, 8), MistakeStreak: 2}

	rnd := rand.New(rand.NewSource(1))
	counts := map[skills.Skill]int{}
	for i := 0; i < 2000; i++ {
		counts[PickSkill(stats, rnd)]++
	}
	for _, s := range skills.All() {
		if s != skills.Phrases && counts[s] >= counts[skills.Phrases] {
			t.Errorf("%s picked %d times, phrases only %d", s, counts[s], counts[skills.Phrases])
		}
	}
}
