package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/ui/theme"
)

// ChoiceList is a numbered multiple-choice selector. Once revealed it
// colors the correct option and the learner's pick.
type ChoiceList struct {
	Options  []string
	Selected int

	// Revealed switches the list to its feedback rendering.
	Revealed bool
	Correct  int // -1 when unknown
	Chosen   int // -1 when nothing was picked (timeout)
}

// NewChoiceList creates a selector over options with the first one
// highlighted.
func NewChoiceList(options []string) ChoiceList {
	return ChoiceList{
		Options: options,
		Correct: -1,
		Chosen:  -1,
	}
}

// Update handles arrow and vim-style navigation. Selection itself is left
// to the owning screen.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if c.Revealed {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	}
	return c, nil
}

// Reveal marks the correct option and the learner's pick.
func (c *ChoiceList) Reveal(correct, chosen int) {
	c.Revealed = true
	c.Correct = correct
	c.Chosen = chosen
}

// View renders the options, each truncated to width.
func (c ChoiceList) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Revealed {
			prefix = "▸ "
		}
		line := Truncate(fmt.Sprintf("%s%d)  %s", prefix, i+1, opt), width)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Revealed && i == c.Correct:
			style = theme.Correct
		case c.Revealed && i == c.Chosen:
			style = theme.Incorrect
		case c.Revealed:
			style = theme.Muted
		case i == c.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		if i < len(c.Options)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
