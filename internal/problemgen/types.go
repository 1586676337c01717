package problemgen

import (
	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/skills"
)

// ChoiceCount is the number of options offered per question.
const ChoiceCount = 4

// Question is a concrete question instance ready for display.
type Question struct {
	// ID is unique per presentation.
	ID string `json:"id"`

	// Key is the stable content identity ("skill:prompt"). Two presentations
	// of the same spec share a Key but not an ID.
	Key string `json:"key"`

	// Skill is the category the question was drawn from.
	Skill skills.Skill `json:"skill"`

	// Level is the learner's mastery level when the question was selected.
	Level int `json:"level"`

	// Band is the content band actually served, after step-down.
	Band int `json:"band"`

	Prompt  string   `json:"prompt"`
	Answers []string `json:"answers"`
	Tip     string   `json:"tip"`
	Focus   string   `json:"focus"`

	// Choices holds the finalized multiple-choice options, one of which is
	// equivalent to an accepted answer.
	Choices []string `json:"choices"`
}

// Expected returns the canonical answer shown in feedback.
func (q *Question) Expected() string {
	if len(q.Answers) == 0 {
		return ""
	}
	return q.Answers[0]
}

// LastOutcome is the result of the previous question, fed back into the
// next selection (focus lock, repeat avoidance, band step-down).
type LastOutcome struct {
	Key     string       `json:"key"`
	Skill   skills.Skill `json:"skill"`
	Prompt  string       `json:"prompt"`
	Focus   string       `json:"focus"`
	Correct bool         `json:"correct"`
}

// OutcomeOf captures the parts of q needed by the next selection.
func OutcomeOf(q *Question, correct bool) *LastOutcome {
	return &LastOutcome{
		Key:     q.Key,
		Skill:   q.Skill,
		Prompt:  q.Prompt,
		Focus:   q.Focus,
		Correct: correct,
	}
}

// GenerateInput holds all context needed to select a question.
type GenerateInput struct {
	// Skill is the target skill.
	Skill skills.Skill

	// Level is the learner's current level for Skill (1-8).
	Level int

	// Stats is the learner's current record for Skill.
	Stats mastery.SkillStats

	// Previous is the outcome of the immediately preceding question in this
	// session, or nil.
	Previous *LastOutcome
}

// Rand is the random source used for selection and shuffling.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// ContentKey builds the stable identity of a spec within a skill.
func ContentKey(skill skills.Skill, prompt string) string {
	return string(skill) + ":" + prompt
}
