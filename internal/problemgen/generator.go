package problemgen

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/skills"
)

// ErrNoContent is returned when a skill has no specs at all. A loaded bank
// never produces it; it signals an authoring mistake.
var ErrNoContent = errors.New("no content for skill")

// Generator selects question specs from a bank and turns them into
// presentable questions.
type Generator struct {
	bank  *content.Bank
	rnd   Rand
	newID func() string
}

// New creates a Generator. A nil rnd uses a time-seeded source.
func New(bank *content.Bank, rnd Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		bank:  bank,
		rnd:   rnd,
		newID: uuid.NewString,
	}
}

// BandForLevel maps a mastery level (1-8) to a content band (1-4).
func BandForLevel(level int) int {
	return clampInt((level+1)/2, content.MinBand, content.MaxBand)
}

// Generate picks a spec for the input's skill and builds a question.
func (g *Generator) Generate(input GenerateInput) (*Question, error) {
	all := g.bank.All(input.Skill)
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: %w", input.Skill, ErrNoContent)
	}

	band := EffectiveBand(input)
	prev := input.Previous
	sameSkill := prev != nil && prev.Skill == input.Skill

	var focus string
	if sameSkill && !prev.Correct {
		focus = prev.Focus
	}
	pool := g.resolvePool(input.Skill, band, focus)

	candidates := pool
	if sameSkill {
		filtered := make([]content.QuestionSpec, 0, len(pool))
		for _, spec := range pool {
			if spec.Prompt != prev.Prompt {
				filtered = append(filtered, spec)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	spec := candidates[g.rnd.Intn(len(candidates))]
	return g.build(input.Skill, input.Level, band, spec, all), nil
}

func (g *Generator) build(skill skills.Skill, level, band int, spec content.QuestionSpec, all []content.QuestionSpec) *Question {
	return &Question{
		ID:      g.newID(),
		Key:     ContentKey(skill, spec.Prompt),
		Skill:   skill,
		Level:   level,
		Band:    band,
		Prompt:  spec.Prompt,
		Answers: append([]string(nil), spec.Answers...),
		Tip:     spec.Tip,
		Focus:   spec.Focus,
		Choices: g.buildChoices(spec, all),
	}
}

// EffectiveBand applies the step-down rule to the level's band: a mistake
// streak of two or a miss on the previous question lowers it by one.
func EffectiveBand(input GenerateInput) int {
	band := BandForLevel(input.Level)
	if input.Stats.MistakeStreak >= 2 || (input.Previous != nil && !input.Previous.Correct) {
		band--
	}
	return clampInt(band, content.MinBand, content.MaxBand)
}

// resolvePool walks band+focus, then band, then the whole skill.
func (g *Generator) resolvePool(skill skills.Skill, band int, focus string) []content.QuestionSpec {
	byBand := g.bank.Pool(skill, band)
	if focus != "" {
		var focused []content.QuestionSpec
		for _, spec := range byBand {
			if spec.Focus == focus {
				focused = append(focused, spec)
			}
		}
		if len(focused) > 0 {
			return focused
		}
	}
	if len(byBand) > 0 {
		return byBand
	}
	return g.bank.All(skill)
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
