package app

import (
	"context"
	"math/rand"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/problemgen"
	"github.com/abhisek/lingoz/internal/router"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/store"
)

func testModel(t *testing.T) (AppModel, *session.Controller) {
	t.Helper()
	bank, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	mem := store.NewMemory()
	ctrl := session.NewController(session.Config{
		Generator: problemgen.New(bank, rand.New(rand.NewSource(11))),
		Rand:      rand.New(rand.NewSource(11)),
		Storage:   mem,
		Events:    mem,
	})
	ctrl.Load(context.Background())
	m := newAppModel(Options{Controller: ctrl})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(AppModel), ctrl
}

// send applies msg and feeds any navigation message the command yields back
// into the model, the way the Bubble Tea runtime would.
func send(m AppModel, msg tea.Msg) (AppModel, tea.Msg) {
	updated, cmd := m.Update(msg)
	m = updated.(AppModel)
	if cmd == nil {
		return m, nil
	}
	out := cmd()
	switch out.(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.PopToRootMsg:
		updated, _ = m.Update(out)
		m = updated.(AppModel)
	}
	return m, out
}

func TestApp_CtrlCQuits(t *testing.T) {
	m, _ := testModel(t)
	_, out := send(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if _, ok := out.(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", out)
	}
}

func TestApp_EscOnRootDoesNothing(t *testing.T) {
	m, _ := testModel(t)
	m, out := send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if out != nil || m.router.Depth() != 1 {
		t.Errorf("depth = %d, out = %T", m.router.Depth(), out)
	}
}

func TestApp_EscPopsPlainScreen(t *testing.T) {
	m, _ := testModel(t)
	m, _ = send(m, tea.KeyPressMsg{Code: 'p', Text: "p"})
	if m.router.Depth() != 2 || m.router.Active().Title() != "Progress" {
		t.Fatalf("progress not pushed, depth %d", m.router.Depth())
	}
	m, _ = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 1 {
		t.Errorf("depth after esc = %d, want 1", m.router.Depth())
	}
}

func TestApp_SessionConsumesEsc(t *testing.T) {
	m, ctrl := testModel(t)
	m, _ = send(m, tea.KeyPressMsg{Code: 'm', Text: "m"})
	if m.router.Depth() != 2 {
		t.Fatalf("session not pushed")
	}
	m, _ = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 2 {
		t.Error("esc should open the quit prompt, not pop")
	}
	m, _ = send(m, tea.KeyPressMsg{Code: 'y', Text: "y"})
	if m.router.Depth() != 1 {
		t.Errorf("depth after confirm = %d, want 1", m.router.Depth())
	}
	if ctrl.Snapshot().Phase != session.PhaseIdle {
		t.Error("controller should be back on the menu")
	}
}

func TestApp_FooterUsesScreenHints(t *testing.T) {
	m, _ := testModel(t)
	if hints := m.footerHints(); hints[len(hints)-1].Key != "Q" {
		t.Errorf("home hints = %+v", hints)
	}
	m, _ = send(m, tea.KeyPressMsg{Code: 's', Text: "s"})
	hints := m.footerHints()
	if hints[0].Key != "↑↓" || hints[len(hints)-1].Key != "Ctrl+C" {
		t.Errorf("settings hints = %+v", hints)
	}
}

func TestApp_StartModeOpensSession(t *testing.T) {
	m, ctrl := testModel(t)
	m.startMode = session.ModeMix
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should start a session")
	}
	m, _ = send(m, cmd())
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
	if ctrl.Snapshot().Phase != session.PhaseActive {
		t.Error("session should be active")
	}
}
