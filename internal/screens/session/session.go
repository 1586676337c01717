package session

import (
	"errors"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingoz/internal/problemgen"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/screen"
	sess "github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/ui/components"
	"github.com/abhisek/lingoz/internal/ui/layout"
)

// SummaryFactory builds the screen shown when a session finishes.
type SummaryFactory func(*sess.Summary) screen.Screen

// SessionScreen drives an active session on the controller. The controller
// must already be started.
type SessionScreen struct {
	ctrl       *sess.Controller
	onFinished SummaryFactory

	choices    components.ChoiceList
	input      components.AnswerInput
	typing     bool
	questionID string
	chosen     int
	errMsg     string

	showingQuitConfirm bool

	// Timers that fired while the quit prompt was open, resumed on cancel.
	heldTick    bool
	heldAdvance bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.EscapeHandler = (*SessionScreen)(nil)

// New creates a SessionScreen over a started controller. onFinished may be
// nil, in which case the screen pops itself when the session ends.
func New(ctrl *sess.Controller, onFinished SummaryFactory) *SessionScreen {
	return &SessionScreen{
		ctrl:       ctrl,
		onFinished: onFinished,
		chosen:     -1,
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.sync()
}

func (s *SessionScreen) Title() string {
	return s.ctrl.Snapshot().Mode.Label()
}

func (s *SessionScreen) HandlesEscape() bool { return true }

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.showingQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.ctrl.Snapshot().Answered {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	if s.typing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: "Choices"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Tab", Description: "Type"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if msg.token != s.ctrl.Snapshot().TickToken {
			return s, nil
		}
		if s.showingQuitConfirm {
			s.heldTick = true
			return s, nil
		}
		if s.ctrl.Tick(msg.token) {
			return s, tickCmd(msg.token)
		}
		return s, s.afterOutcome()

	case autoAdvanceMsg:
		if s.showingQuitConfirm {
			s.heldAdvance = true
			return s, nil
		}
		s.ctrl.AutoAdvance(msg.token)
		return s, s.sync()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.typing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			s.heldTick, s.heldAdvance = false, false
			s.ctrl.Menu()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.showingQuitConfirm = false
			return s, s.resumeTimers()
		}
		return s, nil
	}

	if key == "esc" {
		s.showingQuitConfirm = true
		return s, nil
	}

	snap := s.ctrl.Snapshot()
	if snap.Phase != sess.PhaseActive {
		return s, s.sync()
	}

	if snap.Answered {
		switch key {
		case "enter", "space", " ", "right", "n":
			s.ctrl.Advance()
			return s, s.sync()
		}
		return s, nil
	}

	if key == "tab" {
		s.typing = !s.typing
		s.errMsg = ""
		if s.typing {
			s.input = components.NewAnswerInput("Type your answer...", 80)
			return s, s.input.Init()
		}
		return s, nil
	}

	if s.typing {
		if key == "enter" {
			return s.submit(s.input.Value(), -1)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	switch key {
	case "enter":
		return s.choose(s.choices.Selected)
	case "1", "2", "3", "4":
		n, _ := strconv.Atoi(key)
		if n <= len(s.choices.Options) {
			return s.choose(n - 1)
		}
		return s, nil
	}
	s.choices, _ = s.choices.Update(msg)
	return s, nil
}

func (s *SessionScreen) choose(index int) (screen.Screen, tea.Cmd) {
	q := s.ctrl.Snapshot().Question
	if q == nil || index < 0 || index >= len(q.Choices) {
		return s, nil
	}
	s.choices.Selected = index
	return s.submit(q.Choices[index], index)
}

func (s *SessionScreen) submit(value string, chosen int) (screen.Screen, tea.Cmd) {
	if err := s.ctrl.Submit(value); err != nil {
		if errors.Is(err, sess.ErrEmptyAnswer) {
			s.errMsg = "Choose an answer first."
		} else {
			s.errMsg = err.Error()
		}
		return s, nil
	}
	s.errMsg = ""
	s.chosen = chosen
	return s, s.afterOutcome()
}

// afterOutcome reveals the answer once the controller has recorded one and
// schedules the auto-advance if a correct answer armed it.
func (s *SessionScreen) afterOutcome() tea.Cmd {
	snap := s.ctrl.Snapshot()
	if !snap.Answered || snap.Question == nil {
		return nil
	}
	q := snap.Question
	chosen := s.chosen
	if chosen < 0 && snap.Feedback != nil && snap.Feedback.Answer != "" {
		chosen = indexOf(q.Choices, snap.Feedback.Answer)
	}
	s.choices.Reveal(indexOfAccepted(q), chosen)

	if token, ok := s.ctrl.PendingAdvance(); ok {
		return autoAdvanceCmd(token)
	}
	return nil
}

// resumeTimers restarts the countdown or auto-advance that was held while
// the quit prompt was open.
func (s *SessionScreen) resumeTimers() tea.Cmd {
	var cmds []tea.Cmd
	if s.heldTick {
		s.heldTick = false
		if token := s.ctrl.Snapshot().TickToken; token != 0 {
			cmds = append(cmds, tickCmd(token))
		}
	}
	if s.heldAdvance {
		s.heldAdvance = false
		if token, ok := s.ctrl.PendingAdvance(); ok {
			cmds = append(cmds, autoAdvanceCmd(token))
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// sync aligns the screen with the controller after it moved on: a new
// question resets the widgets and starts its countdown; a finished session
// hands over to the summary.
func (s *SessionScreen) sync() tea.Cmd {
	snap := s.ctrl.Snapshot()
	switch snap.Phase {
	case sess.PhaseFinished:
		if s.onFinished != nil && snap.Summary != nil {
			return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s.onFinished(snap.Summary)} }
		}
		return func() tea.Msg { return router.PopScreenMsg{} }
	case sess.PhaseIdle:
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	q := snap.Question
	if q == nil || q.ID == s.questionID {
		return nil
	}
	s.questionID = q.ID
	s.choices = components.NewChoiceList(q.Choices)
	s.chosen = -1
	s.errMsg = ""

	cmds := []tea.Cmd{tickCmd(snap.TickToken)}
	if s.typing {
		s.input = components.NewAnswerInput("Type your answer...", 80)
		cmds = append(cmds, s.input.Init())
	}
	return tea.Batch(cmds...)
}

func indexOfAccepted(q *problemgen.Question) int {
	for i, c := range q.Choices {
		if problemgen.IsAccepted(c, q.Answers) {
			return i
		}
	}
	return -1
}

func indexOf(choices []string, answer string) int {
	n := problemgen.Normalize(answer)
	for i, c := range choices {
		if problemgen.Normalize(c) == n {
			return i
		}
	}
	return -1
}
