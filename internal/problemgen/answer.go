package problemgen

import (
	"strings"
	"unicode"
)

// Normalize reduces an answer to its comparison form:
// - lowercased
// - characters other than a-z, 0-9, whitespace, apostrophe and hyphen removed
// - whitespace runs collapsed to one space and trimmed
func Normalize(s string) string {
	return filterAnswer(strings.ToLower(s), false)
}

// SanitizeInput strips characters the learner cannot meaningfully type
// while keeping case.
func SanitizeInput(raw string) string {
	return filterAnswer(raw, true)
}

func filterAnswer(s string, keepUpper bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'', r == '-':
			b.WriteRune(r)
		case keepUpper && r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// IsAccepted reports whether value is equivalent to any accepted answer.
func IsAccepted(value string, answers []string) bool {
	n := Normalize(value)
	for _, a := range answers {
		if Normalize(a) == n {
			return true
		}
	}
	return false
}

// CheckAnswer compares the learner's input against the question's accepted
// answers. Empty input is never correct.
func CheckAnswer(learnerAnswer string, question *Question) bool {
	if strings.TrimSpace(learnerAnswer) == "" {
		return false
	}
	return IsAccepted(learnerAnswer, question.Answers)
}
