package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/screens/mistakes"
	"github.com/abhisek/lingoz/internal/screens/progress"
	sessionscreen "github.com/abhisek/lingoz/internal/screens/session"
	"github.com/abhisek/lingoz/internal/screens/settings"
	"github.com/abhisek/lingoz/internal/screens/study"
	"github.com/abhisek/lingoz/internal/screens/summary"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/skills"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/theme"
)

const titleArt = `╦  ╦╔╗╔╔═╗╔═╗╔═╗
║  ║║║║║ ╦║ ║╔═╝
╩═╝╩╝╚╝╚═╝╚═╝╚═╝`

// Deps are the collaborators the home screen hands to the screens it opens.
type Deps struct {
	Controller *session.Controller

	// Totals loads lifetime totals for the progress screen. Optional.
	Totals progress.TotalsFunc

	Cheatset content.Cheatset
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	notice string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.refresh()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume runs when the learner comes back to the menu. Returning here ends
// whatever the controller was doing.
func (h *HomeScreen) Resume() tea.Cmd {
	if h.deps.Controller.Snapshot().Phase != session.PhaseIdle {
		h.deps.Controller.Menu()
	}
	h.refresh()
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// refresh rebuilds the menu so level and bank counts are current.
func (h *HomeScreen) refresh() {
	snap := h.deps.Controller.Snapshot()
	selected := h.menu.Selected

	items := []components.MenuItem{
		{Label: "Mixed practice", Detail: "adapts to your weakest skill", Key: "m", Action: h.start(session.ModeMix)},
	}
	for i, sk := range skills.All() {
		st := snap.Stats.Get(sk)
		items = append(items, components.MenuItem{
			Label:  sk.Label(),
			Detail: fmt.Sprintf("Lv %d %s", st.Level, mastery.LevelName(st.Level)),
			Key:    fmt.Sprint(i + 1),
			Action: h.start(session.SkillMode(sk)),
		})
	}
	items = append(items,
		components.MenuItem{Label: "Review wrong answers", Detail: fmt.Sprintf("%d saved", snap.WrongCount), Key: "r", Action: h.start(session.ModeReview)},
		components.MenuItem{Label: "Wrong answer list", Key: "w", Action: h.openMistakes},
		components.MenuItem{Label: "Progress", Key: "p", Action: h.openProgress},
		components.MenuItem{Label: "Study sheet", Key: "c", Action: h.openStudy},
		components.MenuItem{Label: "Settings", Key: "s", Action: h.openSettings},
		components.MenuItem{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	)

	h.menu = components.NewMenu(items)
	if selected < len(items) {
		h.menu.Selected = selected
	}
}

// sessionScreen starts mode and returns the screen that drives it, or nil
// when the controller had nothing to serve.
func (h *HomeScreen) sessionScreen(mode session.Mode) screen.Screen {
	if !h.deps.Controller.Start(mode) {
		return nil
	}
	return sessionscreen.New(h.deps.Controller, h.summaryFactory(mode))
}

func (h *HomeScreen) summaryFactory(mode session.Mode) sessionscreen.SummaryFactory {
	return func(sum *session.Summary) screen.Screen {
		return summary.New(sum, func() screen.Screen { return h.sessionScreen(mode) })
	}
}

func (h *HomeScreen) start(mode session.Mode) func() tea.Cmd {
	return func() tea.Cmd {
		scr := h.sessionScreen(mode)
		if scr == nil {
			if mode == session.ModeReview {
				h.notice = "No wrong answers to review yet."
			} else {
				h.notice = "No questions available for " + mode.Label() + "."
			}
			return nil
		}
		h.notice = ""
		return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
	}
}

// Start begins a session in mode as if it had been picked from the menu.
func (h *HomeScreen) Start(mode session.Mode) tea.Cmd {
	return h.start(mode)()
}

func (h *HomeScreen) openMistakes() tea.Cmd {
	startReview := func() tea.Cmd {
		scr := h.sessionScreen(session.ModeReview)
		if scr == nil {
			return nil
		}
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: scr} }
	}
	scr := mistakes.New(h.deps.Controller.WrongQuestions(), startReview)
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

func (h *HomeScreen) openProgress() tea.Cmd {
	scr := progress.New(h.deps.Controller.Snapshot().Stats, h.deps.Totals)
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

func (h *HomeScreen) openStudy() tea.Cmd {
	scr := study.New(h.deps.Cheatset)
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

func (h *HomeScreen) openSettings() tea.Cmd {
	scr := settings.New(h.deps.Controller)
	return func() tea.Msg { return router.PushScreenMsg{Screen: scr} }
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	snap := h.deps.Controller.Snapshot()
	overall := mastery.Overall(snap.Stats)

	var sections []string

	title := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render(titleArt)
	if height < 24 {
		title = lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render("L · I · N · G · O · Z")
	}
	sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, title))

	stats := fmt.Sprintf("Accuracy %.0f%%   Focus: %s   %d to review",
		overall.Accuracy*100, session.WeakestSkill(snap.Stats).Label(), snap.WrongCount)
	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Render(stats))

	sections = append(sections, components.Panel(h.menu.View(), cw))

	if h.notice != "" {
		sections = append(sections, components.Banner(h.notice, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
