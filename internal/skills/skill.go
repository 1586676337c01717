package skills

import "fmt"

// Skill identifies a top-level practice category.
type Skill string

const (
	Vocab         Skill = "vocab"
	Grammar       Skill = "grammar"
	Phrases       Skill = "phrases"
	Comprehension Skill = "comprehension"
)

// All returns every skill in enumeration order. Tie-breaks across the
// engine resolve to the earliest skill in this list.
func All() []Skill {
	return []Skill{Vocab, Grammar, Phrases, Comprehension}
}

// Label returns the display name for a skill.
func (s Skill) Label() string {
	switch s {
	case Vocab:
		return "Vocabulary"
	case Grammar:
		return "Grammar"
	case Phrases:
		return "Phrases"
	case Comprehension:
		return "Reading"
	default:
		return string(s)
	}
}

// Symbol returns the one-letter badge shown next to a skill.
func (s Skill) Symbol() string {
	switch s {
	case Vocab:
		return "V"
	case Grammar:
		return "G"
	case Phrases:
		return "P"
	case Comprehension:
		return "R"
	default:
		return "?"
	}
}

// Subtitle returns a short description of what the skill practices.
func (s Skill) Subtitle() string {
	switch s {
	case Vocab:
		return "Build meaning and word choice"
	case Grammar:
		return "Tenses, articles, and structure"
	case Phrases:
		return "Collocations and everyday phrases"
	case Comprehension:
		return "Read for meaning and detail"
	default:
		return ""
	}
}

// Valid reports whether s is one of the enumerated skills.
func (s Skill) Valid() bool {
	for _, k := range All() {
		if k == s {
			return true
		}
	}
	return false
}

// Parse converts a string to a Skill.
func Parse(v string) (Skill, error) {
	s := Skill(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown skill %q", v)
	}
	return s, nil
}
