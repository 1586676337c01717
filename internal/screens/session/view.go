package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/mastery"
	sess "github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}
	snap := s.ctrl.Snapshot()
	if snap.Question == nil {
		return theme.Centered(theme.Muted, width, "\n\n  Preparing your session...")
	}
	return s.renderQuestion(snap, width)
}

func (s *SessionScreen) renderQuestion(snap sess.Snapshot, width int) string {
	q := snap.Question
	cw := min(width-8, 70)

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · Level %d %s", q.Skill.Label(), q.Level, mastery.LevelName(q.Level)))

	timerStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if snap.TimeLeft <= 5 && !snap.Answered {
		timerStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	}
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("Q %d/%d  ", snap.Index, snap.Total)) +
		theme.Correct.Render(fmt.Sprintf("✓ %d", snap.Correct)) + "  " +
		theme.Incorrect.Render(fmt.Sprintf("✗ %d", snap.Wrong)) + "  " +
		timerStyle.Render(fmt.Sprintf("⏱ %ds", snap.TimeLeft))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(components.Wrap(q.Prompt, cw))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	if s.typing && !snap.Answered {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View(cw)))
	}
	b.WriteString("\n\n")

	if s.errMsg != "" {
		b.WriteString(theme.Centered(theme.Incorrect, width, s.errMsg))
		b.WriteString("\n")
	}
	if snap.Answered && snap.Feedback != nil {
		b.WriteString(renderFeedback(*snap.Feedback, width, cw))
	}
	return b.String()
}

func renderFeedback(fb sess.Feedback, width, cw int) string {
	var b strings.Builder

	switch {
	case fb.Correct:
		b.WriteString(theme.Centered(theme.Correct, width, fmt.Sprintf("Correct! (%.1fs)", float64(fb.ElapsedMs)/1000)))
	case fb.TimedOut:
		b.WriteString(theme.Centered(theme.Incorrect, width, "Time's up"))
	default:
		b.WriteString(theme.Centered(theme.Incorrect, width, "Not quite"))
	}
	b.WriteString("\n")
	if !fb.Correct {
		b.WriteString(theme.Centered(theme.Muted, width, "Answer: "+fb.Expected))
		b.WriteString("\n")
	}

	if fb.Tip != "" {
		tip := theme.Hint.Render(components.Wrap("Tip: "+fb.Tip, cw))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, tip))
		b.WriteString("\n")
	}

	switch {
	case fb.LeveledUp():
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.Banner(fmt.Sprintf("%s level up: %d → %d", fb.Skill.Label(), fb.LevelBefore, fb.NewLevel), cw)))
	case fb.LeveledDown():
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Muted, width,
			fmt.Sprintf("%s eased to level %d", fb.Skill.Label(), fb.NewLevel)))
	}

	if !fb.Correct {
		b.WriteString("\n\n")
		b.WriteString(theme.Centered(theme.Muted, width, "Press Enter to continue"))
	}
	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Text).Bold(true), width, "End session early?"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(theme.Muted, width, "Answered questions are already saved."))
	b.WriteString("\n\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Success), width, "[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(theme.Centered(lipgloss.NewStyle().Foreground(theme.Primary), width, "[N] No, keep going"))
	return b.String()
}
