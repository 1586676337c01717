package session

import (
	"time"

	tea "charm.land/bubbletea/v2"

	sess "github.com/abhisek/lingoz/internal/session"
)

// timerTickMsg is one second of countdown for the question identified by
// token.
type timerTickMsg struct {
	token sess.Token
}

// autoAdvanceMsg fires the auto-advance armed by a correct answer.
type autoAdvanceMsg struct {
	token sess.Token
}

func tickCmd(token sess.Token) tea.Cmd {
	return tea.Tick(sess.TickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{token: token}
	})
}

func autoAdvanceCmd(token sess.Token) tea.Cmd {
	return tea.Tick(sess.AutoAdvanceDelay, func(time.Time) tea.Msg {
		return autoAdvanceMsg{token: token}
	})
}
