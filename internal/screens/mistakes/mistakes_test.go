package mistakes

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingoz/internal/problemgen"
	"github.com/abhisek/lingoz/internal/review"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/skills"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testEntries() []review.Entry {
	return []review.Entry{
		{
			Key: "grammar:She ___ to school.",
			Question: problemgen.Question{
				Skill:   skills.Grammar,
				Prompt:  "She ___ to school.",
				Answers: []string{"goes"},
				Tip:     "Third person singular takes -s.",
			},
			Attempts:   2,
			LastMissed: testNow.Add(-5 * time.Minute).UnixMilli(),
		},
		{
			Key: "vocab:Opposite of ancient",
			Question: problemgen.Question{
				Skill:   skills.Vocab,
				Prompt:  "Opposite of ancient",
				Answers: []string{"modern"},
			},
			Attempts:   1,
			LastMissed: testNow.Add(-3 * time.Hour).UnixMilli(),
		},
	}
}

func testScreen(startReview func() tea.Cmd) *MistakesScreen {
	s := New(testEntries(), startReview)
	s.now = func() time.Time { return testNow }
	return s
}

func TestMistakes_ViewListsEntries(t *testing.T) {
	s := testScreen(nil)
	v := s.View(100, 30)
	for _, want := range []string{"She ___ to school.", "x2", "5m ago", "Opposite of ancient", "3h ago"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(v, "Answer: goes") {
		t.Error("details should be collapsed by default")
	}
	if s.Title() != "Wrong Answers (2)" {
		t.Errorf("Title() = %q", s.Title())
	}
}

func TestMistakes_EnterExpandsSelected(t *testing.T) {
	s := testScreen(nil)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	v := s.View(100, 30)
	if !strings.Contains(v, "Answer: modern") {
		t.Error("expanded entry should show its answer")
	}
	if strings.Contains(v, "Answer: goes") {
		t.Error("only the selected entry should expand")
	}
}

func TestMistakes_ReviewShortcut(t *testing.T) {
	called := false
	s := testScreen(func() tea.Cmd {
		called = true
		return func() tea.Msg { return nil }
	})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if !called || cmd == nil {
		t.Error("r should start a review")
	}

	empty := New(nil, func() tea.Cmd {
		t.Error("review should not start with no entries")
		return nil
	})
	empty.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if !strings.Contains(empty.View(80, 20), "No wrong answers saved") {
		t.Error("empty state missing")
	}
}

func TestMistakes_QuitPops(t *testing.T) {
	s := testScreen(nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("q should pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestAgo(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{42 * time.Minute, "42m ago"},
		{30 * time.Hour, "30h ago"},
		{72 * time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		if got := ago(tt.d); got != tt.want {
			t.Errorf("ago(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
