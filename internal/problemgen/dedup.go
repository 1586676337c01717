package problemgen

import "github.com/abhisek/lingoz/internal/content"

// uniqueChoices keeps the first occurrence of each normalized choice.
func uniqueChoices(choices []string) []string {
	seen := make(map[string]bool, len(choices))
	out := make([]string, 0, len(choices))
	for _, c := range choices {
		key := Normalize(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// buildChoices finalizes the option set for spec. The result holds
// ChoiceCount entries unless the skill's whole distractor pool is smaller,
// never repeats a normalized form, and always contains the canonical answer.
func (g *Generator) buildChoices(spec content.QuestionSpec, pool []content.QuestionSpec) []string {
	base := append([]string(nil), spec.Choices...)
	if primary := spec.Answers[0]; !IsAccepted(primary, base) {
		base = append(base, primary)
	}
	base = uniqueChoices(base)

	if len(base) >= ChoiceCount {
		correct := -1
		for i, c := range base {
			if IsAccepted(c, spec.Answers) {
				correct = i
				break
			}
		}
		others := make([]string, 0, len(base)-1)
		for i, c := range base {
			if i != correct {
				others = append(others, c)
			}
		}
		g.shuffle(others)
		out := append([]string{base[correct]}, others[:ChoiceCount-1]...)
		g.shuffle(out)
		return out
	}

	present := make(map[string]bool, len(base))
	for _, c := range base {
		present[Normalize(c)] = true
	}
	var extras []string
	for _, other := range pool {
		for _, c := range other.Choices {
			key := Normalize(c)
			if present[key] || IsAccepted(c, spec.Answers) {
				continue
			}
			present[key] = true
			extras = append(extras, c)
		}
	}
	g.shuffle(extras)

	need := ChoiceCount - len(base)
	if need > len(extras) {
		need = len(extras)
	}
	out := append(base, extras[:need]...)
	g.shuffle(out)
	return out
}

// shuffle is an in-place Fisher-Yates shuffle over the injected source.
func (g *Generator) shuffle(items []string) {
	for i := len(items) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
