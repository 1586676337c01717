// Package content holds the static question catalog and study material.
package content

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/lingoz/internal/skills"
)

// MinBand and MaxBand bound the coarse difficulty buckets.
const (
	MinBand = 1
	MaxBand = 4
)

//go:embed data/bank.json
var defaultBank []byte

// ErrEmptySkill is returned when a skill has no authored questions.
var ErrEmptySkill = errors.New("skill has no questions")

// QuestionSpec is one authored question. Specs are read-only once loaded.
type QuestionSpec struct {
	// Band is the difficulty bucket (1-4).
	Band int `json:"band"`

	// Prompt is the text shown to the learner.
	Prompt string `json:"prompt"`

	// Answers lists every accepted answer. The first one is canonical.
	Answers []string `json:"answers"`

	// Tip is a short explanation shown after answering.
	Tip string `json:"tip"`

	// Focus is the sub-topic label, e.g. "Synonyms".
	Focus string `json:"focus"`

	// Choices are optional fixed distractors.
	Choices []string `json:"choices,omitempty"`
}

// document is the on-disk shape of the bank.
type document struct {
	Skills map[skills.Skill][]QuestionSpec `json:"skills"`
}

// Bank is an immutable catalog of question specs grouped by skill.
type Bank struct {
	specs map[skills.Skill][]QuestionSpec
}

// Default loads the bank embedded in the binary.
func Default() (*Bank, error) {
	return Parse(defaultBank)
}

// DefaultDocument returns the raw embedded bank document.
func DefaultDocument() []byte {
	out := make([]byte, len(defaultBank))
	copy(out, defaultBank)
	return out
}

// Parse validates raw JSON against the bank schema and decodes it.
func Parse(raw []byte) (*Bank, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}
	return FromSpecs(doc.Skills)
}

// FromSpecs builds a bank from already-decoded specs. Every skill present in
// the map must have at least one spec.
func FromSpecs(specs map[skills.Skill][]QuestionSpec) (*Bank, error) {
	b := &Bank{specs: make(map[skills.Skill][]QuestionSpec, len(specs))}
	for skill, list := range specs {
		if !skill.Valid() {
			return nil, fmt.Errorf("unknown skill %q", skill)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%s: %w", skill, ErrEmptySkill)
		}
		for i, spec := range list {
			if spec.Band < MinBand || spec.Band > MaxBand {
				return nil, fmt.Errorf("%s[%d]: band %d out of range", skill, i, spec.Band)
			}
			if len(spec.Answers) == 0 {
				return nil, fmt.Errorf("%s[%d]: no accepted answers", skill, i)
			}
		}
		cp := make([]QuestionSpec, len(list))
		copy(cp, list)
		b.specs[skill] = cp
	}
	return b, nil
}

// Pool returns the specs of a skill in the given band. The result may be
// empty; callers decide how to fall back.
func (b *Bank) Pool(skill skills.Skill, band int) []QuestionSpec {
	var out []QuestionSpec
	for _, spec := range b.specs[skill] {
		if spec.Band == band {
			out = append(out, spec)
		}
	}
	return out
}

// All returns every spec of a skill regardless of band.
func (b *Bank) All(skill skills.Skill) []QuestionSpec {
	list := b.specs[skill]
	out := make([]QuestionSpec, len(list))
	copy(out, list)
	return out
}

// Skills returns the skills that have content, in enumeration order.
func (b *Bank) Skills() []skills.Skill {
	var out []skills.Skill
	for _, s := range skills.All() {
		if len(b.specs[s]) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the total number of specs.
func (b *Bank) Len() int {
	n := 0
	for _, list := range b.specs {
		n += len(list)
	}
	return n
}
