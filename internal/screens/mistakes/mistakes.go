package mistakes

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/review"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

// MistakesScreen lists the wrong-answer bank, most recent first.
type MistakesScreen struct {
	entries  []review.Entry
	selected int
	expanded map[int]bool
	offset   int
	now      func() time.Time

	// startReview launches a review session; nil hides the shortcut.
	startReview func() tea.Cmd
}

var _ screen.Screen = (*MistakesScreen)(nil)
var _ screen.KeyHintProvider = (*MistakesScreen)(nil)

// New creates a MistakesScreen over entries.
func New(entries []review.Entry, startReview func() tea.Cmd) *MistakesScreen {
	return &MistakesScreen{
		entries:     entries,
		expanded:    make(map[int]bool),
		now:         time.Now,
		startReview: startReview,
	}
}

func (s *MistakesScreen) Init() tea.Cmd {
	return nil
}

func (s *MistakesScreen) Title() string {
	return fmt.Sprintf("Wrong Answers (%d)", len(s.entries))
}

func (s *MistakesScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
	}
	if s.startReview != nil && len(s.entries) > 0 {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Review now"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *MistakesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter":
		s.expanded[s.selected] = !s.expanded[s.selected]
	case "r", "R":
		if s.startReview != nil && len(s.entries) > 0 {
			return s, s.startReview()
		}
	}
	return s, nil
}

func (s *MistakesScreen) View(width, height int) string {
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No wrong answers saved. Keep practicing!")
	}

	cw := min(width-8, 76)
	lines := s.renderLines(cw)

	// Keep the selected row on screen.
	first := 0
	for i := range s.entries[:s.selected] {
		first += s.rowHeight(i)
	}
	visible := max(height-1, 1)
	if first < s.offset {
		s.offset = first
	}
	if end := first + s.rowHeight(s.selected); end > s.offset+visible {
		s.offset = end - visible
	}
	lines = lines[min(s.offset, len(lines)):]
	if len(lines) > visible {
		lines = lines[:visible]
	}

	margin := strings.Repeat(" ", max((width-cw)/2, 0))
	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(margin + l)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *MistakesScreen) rowHeight(i int) int {
	if s.expanded[i] {
		return 1 + len(s.detailLines(s.entries[i]))
	}
	return 1
}

func (s *MistakesScreen) renderLines(cw int) []string {
	var lines []string
	for i, e := range s.entries {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		meta := fmt.Sprintf("  %s · x%d · %s", e.Question.Skill.Symbol(), e.Attempts, ago(s.now().Sub(e.MissedAt())))
		prompt := components.Truncate(strings.ReplaceAll(e.Question.Prompt, "\n", " "), max(cw-len(meta)-2, 10))
		lines = append(lines, style.Render(prefix+prompt)+theme.Muted.Render(meta))

		if s.expanded[i] {
			for _, d := range s.detailLines(e) {
				lines = append(lines, theme.Hint.Render(components.Truncate(d, cw)))
			}
		}
	}
	return lines
}

func (s *MistakesScreen) detailLines(e review.Entry) []string {
	out := []string{"    Answer: " + e.Question.Expected()}
	if e.Question.Tip != "" {
		out = append(out, "    Tip: "+e.Question.Tip)
	}
	return out
}

func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
