package study

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

// StudyScreen is a scrollable view of the cheatset.
type StudyScreen struct {
	sheet  content.Cheatset
	offset int

	// lastHeight is the height of the previous render, used to clamp
	// scrolling.
	lastHeight int
	lastLines  int
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)

// New creates a StudyScreen for sheet.
func New(sheet content.Cheatset) *StudyScreen {
	return &StudyScreen{sheet: sheet}
}

func (s *StudyScreen) Init() tea.Cmd {
	return nil
}

func (s *StudyScreen) Title() string {
	if s.sheet.Title != "" {
		return s.sheet.Title
	}
	return "Study"
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	page := max(s.lastHeight-2, 1)
	switch kmsg.String() {
	case "up", "k":
		s.scroll(-1)
	case "down", "j":
		s.scroll(1)
	case "pgup", "b":
		s.scroll(-page)
	case "pgdown", "space", " ", "f":
		s.scroll(page)
	case "home", "g":
		s.offset = 0
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *StudyScreen) scroll(delta int) {
	s.offset = max(min(s.offset+delta, s.lastLines-s.lastHeight), 0)
}

// Lines renders the sheet into display lines of at most width cells.
func (s *StudyScreen) Lines(width int) []string {
	var lines []string
	if s.sheet.Intro != "" {
		for _, l := range strings.Split(components.Wrap(s.sheet.Intro, width), "\n") {
			lines = append(lines, theme.Hint.Render(l))
		}
		lines = append(lines, "")
	}
	for _, sec := range s.sheet.Sections {
		lines = append(lines, theme.Selected.Render(sec.Title))
		if sec.Description != "" {
			lines = append(lines, theme.Muted.Render(sec.Description))
		}
		for _, item := range sec.Items {
			wrapped := strings.Split(components.Wrap(item, max(width-4, 10)), "\n")
			for i, l := range wrapped {
				bullet := "    "
				if i == 0 {
					bullet = "  • "
				}
				lines = append(lines, theme.Body.Render(bullet+l))
			}
		}
		lines = append(lines, "")
	}
	return lines
}

func (s *StudyScreen) View(width, height int) string {
	cw := min(width-8, 76)
	lines := s.Lines(cw)
	s.lastHeight = max(height-1, 1)
	s.lastLines = len(lines)
	s.scroll(0)

	end := min(s.offset+s.lastHeight, len(lines))
	margin := strings.Repeat(" ", max((width-cw)/2, 0))

	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines[s.offset:end] {
		b.WriteString(margin + l + "\n")
	}
	return b.String()
}
