// Package app hosts the root Bubble Tea model.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	"github.com/abhisek/lingoz/internal/screens/home"
	"github.com/abhisek/lingoz/internal/screens/progress"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Controller *session.Controller
	Totals     progress.TotalsFunc
	Cheatset   content.Cheatset

	// StartMode, when set, opens a session right away instead of the menu.
	StartMode session.Mode
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router    *router.Router
	home      *home.HomeScreen
	ctrl      *session.Controller
	startMode session.Mode
	width     int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(home.Deps{
		Controller: opts.Controller,
		Totals:     opts.Totals,
		Cheatset:   opts.Cheatset,
	})
	return AppModel{
		router:    router.New(homeScreen),
		home:      homeScreen,
		ctrl:      opts.Controller,
		startMode: opts.StartMode,
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.startMode != "" {
		return m.home.Start(m.startMode)
	}
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if eh, ok := m.router.Active().(screen.EscapeHandler); ok && eh.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) status() string {
	n := m.ctrl.Snapshot().WrongCount
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("✗ %d to review  ", n)
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Q", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until the learner quits.
// A session still in progress at exit is abandoned.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if opts.Controller.Snapshot().Phase != session.PhaseIdle {
		opts.Controller.Menu()
	}
	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
