package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary *session.Summary

	// playAgain restarts the same mode. It returns nil when nothing can be
	// served (an emptied wrong-answer bank).
	playAgain func() screen.Screen
	notice    string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. playAgain may be nil.
func New(summary *session.Summary, playAgain func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, playAgain: playAgain}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Menu"}}
	if s.playAgain != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Play again"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r", "R":
			if s.playAgain == nil {
				return s, nil
			}
			next := s.playAgain()
			if next == nil {
				s.notice = "Nothing left to review. Nice work!"
				return s, nil
			}
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(theme.Centered(theme.Title, width, "Session complete!"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Muted, width, sum.Mode.Label()))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(theme.Centered(theme.Muted, width, fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %.0f%%",
		sum.TotalQuestions, sum.TotalCorrect, sum.Accuracy*100)
	b.WriteString(theme.Centered(theme.Body, width, statsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Muted.Render("Skills")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, sr := range sum.SkillResults {
		if sr.Attempted == 0 {
			continue
		}
		levelStr := fmt.Sprintf("Level %d %s", sr.LevelAfter, mastery.LevelName(sr.LevelAfter))
		if sr.LevelBefore != sr.LevelAfter {
			levelStr = fmt.Sprintf("Level %d > %d", sr.LevelBefore, sr.LevelAfter)
		}
		line := fmt.Sprintf("  %-12s %d/%d correct    %s", sr.Skill.Label(), sr.Correct, sr.Attempted, levelStr)

		style := theme.Body
		switch {
		case sr.LevelAfter > sr.LevelBefore:
			style = lipgloss.NewStyle().Foreground(theme.Success)
		case sr.LevelAfter < sr.LevelBefore:
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Hint, width, s.notice))
	}
	return b.String()
}
