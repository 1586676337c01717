package problemgen

import (
	"fmt"

	"github.com/abhisek/lingoz/internal/content"
)

// ValidationError describes a question that breaks a presentation rule.
type ValidationError struct {
	Key     string // Content key of the offending question
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %q: %s", e.Key, e.Message)
}

// Validate checks that q can be shown: it has a prompt and an answer, and
// its choice set is full, free of duplicates and contains the answer.
func Validate(q *Question) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Key: q.Key, Message: fmt.Sprintf(format, args...)}
	}
	if q.Prompt == "" {
		return fail("prompt is empty")
	}
	if len(q.Answers) == 0 || Normalize(q.Answers[0]) == "" {
		return fail("no usable answer")
	}
	if len(q.Choices) != ChoiceCount {
		return fail("has %d choices, want %d", len(q.Choices), ChoiceCount)
	}
	if len(uniqueChoices(q.Choices)) != len(q.Choices) {
		return fail("choices repeat after normalization")
	}
	for _, c := range q.Choices {
		if IsAccepted(c, q.Answers) {
			return nil
		}
	}
	return fail("no choice matches an accepted answer")
}

// Audit builds every spec in the bank once and reports the ones whose
// question would fail Validate.
func (g *Generator) Audit() []*ValidationError {
	var problems []*ValidationError
	for _, skill := range g.bank.Skills() {
		all := g.bank.All(skill)
		for _, spec := range all {
			q := g.build(skill, 0, spec.Band, spec, all)
			if err := Validate(q); err != nil {
				problems = append(problems, err)
			}
		}
	}
	return problems
}

// Audit is a convenience wrapper over a Generator for bank.
func Audit(bank *content.Bank) []*ValidationError {
	return New(bank, nil).Audit()
}
