package problemgen

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/skills"
)

func spec(band int, prompt, answer, focus string, choices ...string) content.QuestionSpec {
	return content.QuestionSpec{
		Band:    band,
		Prompt:  prompt,
		Answers: []string{answer},
		Tip:     "tip for " + prompt,
		Focus:   focus,
		Choices: choices,
	}
}

func testBank(t *testing.T, specs map[skills.Skill][]content.QuestionSpec) *content.Bank {
	t.Helper()
	b, err := content.FromSpecs(specs)
	if err != nil {
		t.Fatalf("FromSpecs: %v", err)
	}
	return b
}

func defaultBank(t *testing.T) *content.Bank {
	t.Helper()
	b, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	return b
}

func newTestGenerator(bank *content.Bank, seed int64) *Generator {
	return New(bank, rand.New(rand.NewSource(seed)))
}

func TestBandForLevel(t *testing.T) {
	tests := []struct {
		level, want int
	}{
		{0, 1}, {1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {6, 3}, {7, 4}, {8, 4}, {12, 4},
	}
	for _, tt := range tests {
		if got := BandForLevel(tt.level); got != tt.want {
			t.Errorf("BandForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestEffectiveBand(t *testing.T) {
	miss := &LastOutcome{Skill: skills.Vocab, Correct: false}
	hit := &LastOutcome{Skill: skills.Vocab, Correct: true}

	tests := []struct {
		name  string
		input GenerateInput
		want  int
	}{
		{"plain", GenerateInput{Level: 5}, 3},
		{"mistake streak", GenerateInput{Level: 5, Stats: mastery.SkillStats{MistakeStreak: 2}}, 2},
		{"previous miss", GenerateInput{Level: 5, Previous: miss}, 2},
		{"previous hit", GenerateInput{Level: 5, Previous: hit}, 3},
		{"both rules step once", GenerateInput{Level: 8, Stats: mastery.SkillStats{MistakeStreak: 3}, Previous: miss}, 3},
		{"floor", GenerateInput{Level: 1, Previous: miss}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveBand(tt.input); got != tt.want {
				t.Errorf("EffectiveBand = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerate_FillsQuestion(t *testing.T) {
	gen := newTestGenerator(defaultBank(t), 1)

	q, err := gen.Generate(GenerateInput{Skill: skills.Grammar, Level: 3, Stats: mastery.NewSkillStats()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if q.ID == "" {
		t.Error("ID should be set")
	}
	if q.Key != ContentKey(skills.Grammar, q.Prompt) {
		t.Errorf("Key = %q", q.Key)
	}
	if q.Skill != skills.Grammar || q.Level != 3 || q.Band != 2 {
		t.Errorf("skill=%s level=%d band=%d", q.Skill, q.Level, q.Band)
	}
	if q.Tip == "" || q.Focus == "" || q.Expected() == "" {
		t.Errorf("incomplete question %+v", q)
	}

	q2, _ := gen.Generate(GenerateInput{Skill: skills.Grammar, Level: 3})
	if q.ID == q2.ID {
		t.Error("IDs should be unique per presentation")
	}
}

func TestGenerate_ServesTargetBand(t *testing.T) {
	gen := newTestGenerator(defaultBank(t), 2)
	for level := mastery.MinLevel; level <= mastery.MaxLevel; level++ {
		for i := 0; i < 10; i++ {
			q, err := gen.Generate(GenerateInput{Skill: skills.Vocab, Level: level})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			want := BandForLevel(level)
			for _, s := range gen.bank.Pool(skills.Vocab, want) {
				if s.Prompt == q.Prompt {
					want = -1
				}
			}
			if want != -1 {
				t.Fatalf("level %d served %q outside band %d", level, q.Prompt, BandForLevel(level))
			}
		}
	}
}

func TestGenerate_FocusLockAfterMiss(t *testing.T) {
	bank := testBank(t, map[skills.Skill][]content.QuestionSpec{
		skills.Grammar: {
			spec(2, "a1", "x", "Articles", "x", "y", "z", "w"),
			spec(2, "a2", "x", "Articles", "x", "y", "z", "w"),
			spec(2, "p1", "x", "Prepositions", "x", "y", "z", "w"),
			spec(2, "p2", "x", "Prepositions", "x", "y", "z", "w"),
		},
	})
	gen := newTestGenerator(bank, 3)
	prev := &LastOutcome{Skill: skills.Grammar, Prompt: "a1", Focus: "Articles", Correct: false}

	for i := 0; i < 50; i++ {
		// Level 5 is band 3; the miss steps it down to band 2.
		q, err := gen.Generate(GenerateInput{Skill: skills.Grammar, Level: 5, Previous: prev})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if q.Prompt != "a2" {
			t.Fatalf("got %q, want the other Articles question", q.Prompt)
		}
		if q.Band != 2 {
			t.Fatalf("Band = %d, want 2", q.Band)
		}
	}
}

func TestGenerate_FocusLockFallsBackToBand(t *testing.T) {
	bank := testBank(t, map[skills.Skill][]content.QuestionSpec{
		skills.Grammar: {
			spec(1, "p1", "x", "Prepositions", "x", "y", "z", "w"),
			spec(1, "p2", "x", "Prepositions", "x", "y", "z", "w"),
			spec(3, "a1", "x", "Articles", "x", "y", "z", "w"),
		},
	})
	gen := newTestGenerator(bank, 4)
	prev := &LastOutcome{Skill: skills.Grammar, Prompt: "a1", Focus: "Articles", Correct: false}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		q, err := gen.Generate(GenerateInput{Skill: skills.Grammar, Level: 2, Previous: prev})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		seen[q.Prompt] = true
	}
	if !seen["p1"] || !seen["p2"] || seen["a1"] {
		t.Errorf("expected band-1 pool only, saw %v", seen)
	}
}

func TestGenerate_NoFocusLockAfterCorrectOrOtherSkill(t *testing.T) {
	bank := testBank(t, map[skills.Skill][]content.QuestionSpec{
		skills.Grammar: {
			spec(1, "a1", "x", "Articles", "x", "y", "z", "w"),
			spec(1, "p1", "x", "Prepositions", "x", "y", "z", "w"),
			spec(1, "p2", "x", "Prepositions", "x", "y", "z", "w"),
		},
	})
	gen := newTestGenerator(bank, 5)

	for _, prev := range []*LastOutcome{
		{Skill: skills.Grammar, Prompt: "a1", Focus: "Prepositions", Correct: true},
		{Skill: skills.Vocab, Prompt: "v1", Focus: "Articles", Correct: false},
	} {
		seen := map[string]bool{}
		for i := 0; i < 60; i++ {
			q, _ := gen.Generate(GenerateInput{Skill: skills.Grammar, Level: 1, Previous: prev})
			seen[q.Prompt] = true
		}
		if !seen["p1"] || !seen["p2"] {
			t.Errorf("prev %+v: expected the whole band, saw %v", prev, seen)
		}
	}
}

func TestGenerate_FallsBackToWholeSkill(t *testing.T) {
	bank := testBank(t, map[skills.Skill][]content.QuestionSpec{
		skills.Phrases: {spec(4, "hard", "x", "Idioms", "x", "y", "z", "w")},
	})
	gen := newTestGenerator(bank, 6)

	q, err := gen.Generate(GenerateInput{Skill: skills.Phrases, Level: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if q.Prompt != "hard" {
		t.Errorf("Prompt = %q", q.Prompt)
	}
}

func TestGenerate_RepeatAvoidance(t *testing.T) {
	bank := testBank(t, map[skills.Skill][]content.QuestionSpec{
		skills.Vocab: {
			spec(1, "one", "x", "Synonyms", "x", "y", "z", "w"),
			spec(1, "two", "x", "Synonyms", "x", "y", "z", "w"),
		},
	})
	gen := newTestGenerator(bank, 7)
	prev := &LastOutcome{Skill: skills.Vocab, Prompt: "one", Focus: "Synonyms", Correct: true}

	for i := 0; i < 30; i++ {
		q, _ := gen.Generate(GenerateInput{Skill: skills.Vocab, Level: 1, Previous: prev})
		if q.Prompt != "two" {
			t.Fatalf("repeated the previous prompt")
		}
	}
}

func TestGenerate_RepeatAllowedWhenNothingElse(t *testing.T) {
	bank := testBank(t, map[skills.Skill][]content.QuestionSpec{
		skills.Vocab: {spec(1, "only", "x", "Synonyms", "x", "y", "z", "w")},
	})
	gen := newTestGenerator(bank, 8)
	prev := &LastOutcome{Skill: skills.Vocab, Prompt: "only", Correct: false}

	q, err := gen.Generate(GenerateInput{Skill: skills.Vocab, Level: 1, Previous: prev})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if q.Prompt != "only" {
		t.Errorf("Prompt = %q", q.Prompt)
	}
}

func TestGenerate_EmptySkill(t *testing.T) {
	bank := testBank(t, map[skills.Skill][]content.QuestionSpec{
		skills.Vocab: {spec(1, "only", "x", "Synonyms", "x", "y", "z", "w")},
	})
	gen := newTestGenerator(bank, 9)

	_, err := gen.Generate(GenerateInput{Skill: skills.Grammar, Level: 1})
	if !errors.Is(err, ErrNoContent) {
		t.Errorf("err = %v, want ErrNoContent", err)
	}
}

func assertValidChoices(t *testing.T, q *Question) {
	t.Helper()
	if len(q.Choices) != ChoiceCount {
		t.Fatalf("%q: %d choices, want %d: %v", q.Prompt, len(q.Choices), ChoiceCount, q.Choices)
	}
	seen := map[string]bool{}
	found := false
	for _, c := range q.Choices {
		n := Normalize(c)
		if seen[n] {
			t.Fatalf("%q: duplicate choice %q in %v", q.Prompt, c, q.Choices)
		}
		seen[n] = true
		if IsAccepted(c, q.Answers) {
			found = true
		}
	}
	if !found {
		t.Fatalf("%q: answer missing from %v", q.Prompt, q.Choices)
	}
}

func TestGenerate_ChoicesOnDefaultBank(t *testing.T) {
	gen := newTestGenerator(defaultBank(t), 10)
	for _, skill := range skills.All() {
		for level := mastery.MinLevel; level <= mastery.MaxLevel; level++ {
			for i := 0; i < 5; i++ {
				q, err := gen.Generate(GenerateInput{Skill: skill, Level: level})
				if err != nil {
					t.Fatalf("Generate(%s, %d): %v", skill, level, err)
				}
				assertValidChoices(t, q)
			}
		}
	}
}

func TestBuildChoices_Dedupes(t *testing.T) {
	s := spec(1, "dup", "Fast", "Synonyms", "fast", "FAST!", "slow", "slow ", "weak", "late")
	gen := newTestGenerator(testBank(t, map[skills.Skill][]content.QuestionSpec{skills.Vocab: {s}}), 11)

	for i := 0; i < 20; i++ {
		q := gen.build(skills.Vocab, 1, 1, s, []content.QuestionSpec{s})
		assertValidChoices(t, q)
	}
}

func TestBuildChoices_TruncationKeepsAnswer(t *testing.T) {
	s := spec(1, "many", "right", "Synonyms", "a", "b", "c", "d", "e", "f", "right")
	gen := newTestGenerator(testBank(t, map[skills.Skill][]content.QuestionSpec{skills.Vocab: {s}}), 12)

	for i := 0; i < 50; i++ {
		q := gen.build(skills.Vocab, 1, 1, s, []content.QuestionSpec{s})
		assertValidChoices(t, q)
	}
}

func TestBuildChoices_PadsFromSkillPool(t *testing.T) {
	short := spec(1, "short", "yes", "Synonyms", "no")
	other := spec(2, "other", "maybe", "Synonyms", "maybe", "YES", "perhaps", "never")
	pool := []content.QuestionSpec{short, other}
	gen := newTestGenerator(testBank(t, map[skills.Skill][]content.QuestionSpec{skills.Vocab: pool}), 13)

	for i := 0; i < 20; i++ {
		q := gen.build(skills.Vocab, 1, 1, short, pool)
		assertValidChoices(t, q)
		for _, c := range q.Choices {
			if c == "YES" {
				t.Fatal("padding must skip strings equivalent to the answer")
			}
		}
	}
}

func TestBuildChoices_PadsFromChoicesNotAnswers(t *testing.T) {
	short := spec(1, "short", "yes", "Synonyms", "no")
	other := spec(2, "other", "sometimes", "Synonyms", "maybe", "perhaps")
	pool := []content.QuestionSpec{short, other}
	gen := newTestGenerator(testBank(t, map[skills.Skill][]content.QuestionSpec{skills.Vocab: {short}}), 15)

	for i := 0; i < 20; i++ {
		q := gen.build(skills.Vocab, 1, 1, short, pool)
		assertValidChoices(t, q)
		for _, c := range q.Choices {
			if c == "sometimes" {
				t.Fatal("another spec's answer must not be used as padding")
			}
		}
	}
}

func TestBuildChoices_ShortPoolStaysShort(t *testing.T) {
	s := spec(1, "tiny", "yes", "Synonyms", "no")
	gen := newTestGenerator(testBank(t, map[skills.Skill][]content.QuestionSpec{skills.Vocab: {s}}), 14)

	q := gen.build(skills.Vocab, 1, 1, s, []content.QuestionSpec{s})
	if len(q.Choices) != 2 {
		t.Errorf("Choices = %v, want 2 entries", q.Choices)
	}
}

func TestAudit(t *testing.T) {
	if problems := Audit(defaultBank(t)); len(problems) != 0 {
		t.Errorf("default bank has problems: %v", problems)
	}

	bank := testBank(t, map[skills.Skill][]content.QuestionSpec{
		skills.Vocab: {spec(1, "tiny", "yes", "Synonyms", "no")},
	})
	problems := Audit(bank)
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1", len(problems))
	}
	if problems[0].Key != ContentKey(skills.Vocab, "tiny") {
		t.Errorf("Key = %q", problems[0].Key)
	}
}
