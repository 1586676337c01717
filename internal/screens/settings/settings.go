package settings

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

// Controller is the part of the session controller the settings screen
// drives.
type Controller interface {
	Snapshot() session.Snapshot
	AdjustSetting(id session.ControlID, delta int)
	ResetStats()
}

// SettingsScreen adjusts practice settings and resets progress.
type SettingsScreen struct {
	ctrl     Controller
	controls []session.Control
	cursor   int

	confirmReset bool
	notice       string
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)
var _ screen.EscapeHandler = (*SettingsScreen)(nil)

// New creates a SettingsScreen.
func New(ctrl Controller) *SettingsScreen {
	return &SettingsScreen{
		ctrl:     ctrl,
		controls: session.Controls(),
	}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

// HandlesEscape lets Esc cancel a pending reset before leaving.
func (s *SettingsScreen) HandlesEscape() bool { return s.confirmReset }

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	if s.confirmReset {
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset progress"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "←→", Description: "Adjust"},
		{Key: "X", Description: "Reset progress"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()

	if s.confirmReset {
		switch key {
		case "y", "Y":
			s.ctrl.ResetStats()
			s.notice = "Progress and wrong answers cleared."
			s.confirmReset = false
		case "n", "N", "esc":
			s.confirmReset = false
		}
		return s, nil
	}

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.controls)-1 {
			s.cursor++
		}
	case "left", "h", "-":
		s.adjust(-1)
	case "right", "l", "+", "=":
		s.adjust(1)
	case "x", "X":
		s.confirmReset = true
		s.notice = ""
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *SettingsScreen) adjust(delta int) {
	if len(s.controls) == 0 {
		return
	}
	s.ctrl.AdjustSetting(s.controls[s.cursor].ID, delta)
	s.notice = ""
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	current := s.ctrl.Snapshot().Settings

	var rows []string
	for i, c := range s.controls {
		value := c.Format(c.Value(current))
		style := theme.Unselected
		prefix := "  "
		if i == s.cursor {
			style = theme.Selected
			prefix = "▸ "
		}
		row := style.Render(fmt.Sprintf("%s%-22s ◂ %5s ▸", prefix, c.Label, value))
		hint := theme.Hint.Render(fmt.Sprintf("    %s (%s to %s)", c.Hint, c.Format(c.Min), c.Format(c.Max)))
		rows = append(rows, row, hint)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Panel(strings.Join(rows, "\n"), cw)))
	b.WriteString("\n\n")

	switch {
	case s.confirmReset:
		b.WriteString(theme.Centered(theme.Incorrect, width, "Reset all skill levels and the wrong-answer bank?"))
		b.WriteString("\n")
		b.WriteString(theme.Centered(theme.Muted, width, "[Y] Yes, reset    [N] Cancel"))
	case s.notice != "":
		b.WriteString(theme.Centered(theme.Correct, width, s.notice))
	}
	return b.String()
}
