package session

import (
	"time"

	"github.com/abhisek/lingoz/internal/skills"
)

// SkillResult tracks per-skill performance within a single session.
type SkillResult struct {
	Skill       skills.Skill
	Attempted   int
	Correct     int
	LevelBefore int
	LevelAfter  int
}

// Summary holds the data displayed on the summary screen.
type Summary struct {
	SessionID      string
	Mode           Mode
	Duration       time.Duration
	TotalQuestions int
	TotalCorrect   int
	Accuracy       float64
	SkillResults   []SkillResult
}

// buildSummary creates a Summary from the controller's session counters.
func (c *Controller) buildSummary() *Summary {
	var results []SkillResult
	for _, s := range skills.All() {
		if sr, ok := c.results[s]; ok {
			results = append(results, *sr)
		}
	}

	answered := c.correct + c.wrong
	var accuracy float64
	if answered > 0 {
		accuracy = float64(c.correct) / float64(answered)
	}

	return &Summary{
		SessionID:      c.sessionID,
		Mode:           c.mode,
		Duration:       c.now().Sub(c.startedAt),
		TotalQuestions: answered,
		TotalCorrect:   c.correct,
		Accuracy:       accuracy,
		SkillResults:   results,
	}
}
