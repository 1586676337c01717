package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/skills"
	"github.com/abhisek/lingoz/internal/store"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

// TotalsFunc loads lifetime totals from the event log.
type TotalsFunc func(ctx context.Context) (store.Totals, error)

type totalsLoadedMsg struct {
	Totals store.Totals
	Err    error
}

// ProgressScreen shows per-skill mastery and lifetime totals.
type ProgressScreen struct {
	stats   mastery.Stats
	weakest skills.Skill
	totals  TotalsFunc

	lifetime *store.Totals
	errMsg   string
	cursor   int
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a ProgressScreen for stats. totals may be nil when no event
// log is available.
func New(stats mastery.Stats, totals TotalsFunc) *ProgressScreen {
	return &ProgressScreen{
		stats:   stats,
		weakest: session.WeakestSkill(stats),
		totals:  totals,
	}
}

func (s *ProgressScreen) Init() tea.Cmd {
	if s.totals == nil {
		return nil
	}
	load := s.totals
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		t, err := load(ctx)
		return totalsLoadedMsg{Totals: t, Err: err}
	}
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Skill"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case totalsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.lifetime = &msg.Totals
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(skills.All())-1 {
				s.cursor++
			}
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	overall := mastery.Overall(s.stats)
	b.WriteString(theme.Centered(theme.Body, width, fmt.Sprintf(
		"Recent answers: %d    Accuracy: %.0f%%    Avg time: %.1fs",
		overall.Attempts, overall.Accuracy*100, overall.AverageMs/1000)))
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Muted, width, "Focus next: "+s.weakest.Label()))
	b.WriteString("\n\n")

	for i, sk := range skills.All() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderSkill(sk, i == s.cursor, cw)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderDetail(skills.All()[s.cursor], cw)))
	b.WriteString("\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(theme.Centered(theme.Incorrect, width, "Lifetime totals unavailable: "+s.errMsg))
	case s.lifetime != nil:
		lt := s.lifetime
		line := fmt.Sprintf("Lifetime: %d sessions    %d answers    %d correct", lt.Sessions, lt.Answers, lt.Correct)
		b.WriteString(theme.Centered(theme.Muted, width, line))
	}
	return b.String()
}

func (s *ProgressScreen) renderSkill(sk skills.Skill, selected bool, cw int) string {
	st := s.stats.Get(sk)
	label := fmt.Sprintf("%s %-11s", sk.Symbol(), sk.Label())
	bar := components.ProgressBar{
		Label:   label,
		Percent: mastery.Progress(st.Level),
		Caption: fmt.Sprintf("Lv %d %-10s", st.Level, mastery.LevelName(st.Level)),
		Width:   cw,
	}
	prefix := "  "
	if selected {
		prefix = theme.Selected.Render("▸ ")
	}
	return prefix + bar.View()
}

func (s *ProgressScreen) renderDetail(sk skills.Skill, cw int) string {
	st := s.stats.Get(sk)
	lines := []string{
		theme.Selected.Render(sk.Label()) + "  " + theme.Hint.Render(sk.Subtitle()),
		fmt.Sprintf("Accuracy %.0f%% over %d recent answers", st.Accuracy()*100, len(st.History)),
		fmt.Sprintf("Average %.1fs, level-up target %.1fs", st.AverageMs()/1000, float64(mastery.TargetMs(st.Level))/1000),
		fmt.Sprintf("Streak %d, mistakes in a row %d", st.Streak, st.MistakeStreak),
	}
	return components.Panel(strings.Join(lines, "\n"), cw)
}
