package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/skills"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lingoz.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

type blob struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestKV_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var got blob
	if err := s.ReadJSON(ctx, "missing", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadJSON(missing) = %v, want ErrNotFound", err)
	}

	if err := s.WriteJSON(ctx, "k", blob{Name: "a", Count: 1}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := s.WriteJSON(ctx, "k", blob{Name: "b", Count: 2}); err != nil {
		t.Fatalf("WriteJSON (overwrite): %v", err)
	}
	if err := s.ReadJSON(ctx, "k", &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got != (blob{Name: "b", Count: 2}) {
		t.Errorf("got %+v", got)
	}

	if err := s.DeleteKey(ctx, "k"); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if err := s.ReadJSON(ctx, "k", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: %v", err)
	}
}

func TestKV_MalformedValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.WriteRaw(ctx, "bad", []byte(`{"name":`)); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	var got blob
	err := s.ReadJSON(ctx, "bad", &got)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("ReadJSON(bad) = %v, want decode error", err)
	}
}

func TestKV_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lingoz.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.WriteJSON(ctx, "k", blob{Name: "kept"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	var got blob
	if err := s.ReadJSON(ctx, "k", &got); err != nil || got.Name != "kept" {
		t.Errorf("ReadJSON after reopen = %+v, %v", got, err)
	}
}

func TestEvents_Totals(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	totals, err := s.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals (empty): %v", err)
	}
	if totals.Answers != 0 || totals.Sessions != 0 || !totals.LastAnswered.IsZero() {
		t.Errorf("empty totals = %+v", totals)
	}

	answers := []AnswerEventData{
		{SessionID: "s1", Skill: "vocab", QuestionKey: "vocab:a", Level: 1, Band: 1, Correct: true, TimeMs: 1000},
		{SessionID: "s1", Skill: "vocab", QuestionKey: "vocab:b", Level: 1, Band: 1, Correct: false, TimeMs: 3000},
		{SessionID: "s1", Skill: "grammar", QuestionKey: "grammar:a", Level: 2, Band: 1, TimedOut: true, TimeMs: 20000},
	}
	if err := s.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: SessionStart, Mode: "mix"}); err != nil {
		t.Fatalf("AppendSessionEvent: %v", err)
	}
	for _, a := range answers {
		if err := s.AppendAnswerEvent(ctx, a); err != nil {
			t.Fatalf("AppendAnswerEvent: %v", err)
		}
	}
	if err := s.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: SessionEnd, Mode: "mix", QuestionsServed: 3, CorrectAnswers: 1}); err != nil {
		t.Fatalf("AppendSessionEvent: %v", err)
	}

	totals, err = s.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Sessions != 1 || totals.Answers != 3 || totals.Correct != 1 {
		t.Errorf("totals = %+v", totals)
	}
	if len(totals.PerSkill) != 2 {
		t.Fatalf("PerSkill = %+v", totals.PerSkill)
	}
	// Ordered by skill name.
	g, v := totals.PerSkill[0], totals.PerSkill[1]
	if g.Skill != "grammar" || g.TimedOut != 1 || g.Attempts != 1 {
		t.Errorf("grammar totals = %+v", g)
	}
	if v.Skill != "vocab" || v.Attempts != 2 || v.Correct != 1 || v.AverageMs != 2000 {
		t.Errorf("vocab totals = %+v", v)
	}
	if totals.LastAnswered.IsZero() {
		t.Error("LastAnswered should be set")
	}
}

func TestEvents_SharedSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.AppendSessionEvent(ctx, SessionEventData{SessionID: "s", Action: SessionStart})
	_ = s.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s", Skill: "vocab"})
	_ = s.AppendSessionEvent(ctx, SessionEventData{SessionID: "s", Action: SessionEnd})

	var answerSeq int64
	if err := s.DB().QueryRow(`SELECT sequence FROM answer_events`).Scan(&answerSeq); err != nil {
		t.Fatalf("query: %v", err)
	}
	if answerSeq != 2 {
		t.Errorf("answer sequence = %d, want 2", answerSeq)
	}
}

func TestBank_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	bank, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}

	if _, err := s.LoadBank(ctx); !errors.Is(err, content.ErrEmptySkill) {
		t.Errorf("LoadBank(empty) = %v, want ErrEmptySkill", err)
	}

	n, err := s.SaveBank(ctx, bank)
	if err != nil {
		t.Fatalf("SaveBank: %v", err)
	}
	if n != bank.Len() {
		t.Errorf("saved %d, want %d", n, bank.Len())
	}
	// Saving twice replaces instead of duplicating.
	if _, err := s.SaveBank(ctx, bank); err != nil {
		t.Fatalf("SaveBank (again): %v", err)
	}

	loaded, err := s.LoadBank(ctx)
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if loaded.Len() != bank.Len() {
		t.Errorf("loaded %d specs, want %d", loaded.Len(), bank.Len())
	}
	for _, skill := range skills.All() {
		want, got := bank.All(skill), loaded.All(skill)
		if len(want) != len(got) {
			t.Fatalf("%s: %d specs, want %d", skill, len(got), len(want))
		}
		for i := range want {
			if want[i].Prompt != got[i].Prompt || want[i].Band != got[i].Band || len(want[i].Answers) != len(got[i].Answers) {
				t.Errorf("%s[%d] = %+v, want %+v", skill, i, got[i], want[i])
			}
		}
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var got blob
	if err := m.ReadJSON(ctx, "k", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadJSON(missing) = %v", err)
	}
	if err := m.WriteJSON(ctx, "k", blob{Name: "x"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := m.ReadJSON(ctx, "k", &got); err != nil || got.Name != "x" {
		t.Errorf("ReadJSON = %+v, %v", got, err)
	}

	_ = m.AppendAnswerEvent(ctx, AnswerEventData{Skill: "vocab"})
	_ = m.AppendSessionEvent(ctx, SessionEventData{Action: SessionStart})
	if len(m.AnswerEvents()) != 1 || len(m.SessionEvents()) != 1 {
		t.Error("events not recorded")
	}
}

func TestWriter_FlushesOnClose(t *testing.T) {
	m := NewMemory()
	w := NewWriter(m, 8, nil)
	ctx := context.Background()

	v := blob{Name: "first"}
	if err := w.WriteJSON(ctx, "k", &v); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	v.Name = "mutated after submit"
	if err := w.AppendAnswerEvent(ctx, AnswerEventData{Skill: "vocab"}); err != nil {
		t.Fatalf("AppendAnswerEvent: %v", err)
	}
	if err := w.AppendSessionEvent(ctx, SessionEventData{Action: SessionEnd}); err != nil {
		t.Fatalf("AppendSessionEvent: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var got blob
	if err := w.ReadJSON(ctx, "k", &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Name != "first" {
		t.Errorf("Name = %q, want the value at submit time", got.Name)
	}
	if len(m.AnswerEvents()) != 1 || len(m.SessionEvents()) != 1 {
		t.Error("events not flushed")
	}

	if err := w.WriteJSON(ctx, "k", blob{}); !errors.Is(err, ErrWriterClosed) {
		t.Errorf("WriteJSON after Close = %v, want ErrWriterClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

// blockingBackend holds every write until release is closed.
type blockingBackend struct {
	*Memory
	release chan struct{}
	writes  atomic.Int32
}

func (b *blockingBackend) WriteRaw(ctx context.Context, key string, raw []byte) error {
	<-b.release
	b.writes.Add(1)
	return b.Memory.WriteRaw(ctx, key, raw)
}

func TestWriter_DropsWhenFull(t *testing.T) {
	backend := &blockingBackend{Memory: NewMemory(), release: make(chan struct{})}
	w := NewWriter(backend, 2, nil)
	ctx := context.Background()

	var dropped int
	for i := 0; i < 10; i++ {
		if err := w.WriteJSON(ctx, fmt.Sprintf("k%d", i), i); errors.Is(err, ErrQueueFull) {
			dropped++
		}
	}
	if dropped == 0 {
		t.Error("expected some writes to be dropped")
	}

	close(backend.release)
	done := make(chan struct{})
	go func() {
		w.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not drain the queue")
	}
	if got := int(backend.writes.Load()); got != 10-dropped {
		t.Errorf("writes = %d, want %d", got, 10-dropped)
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "custom.db")
	t.Setenv("LINGOZ_DB", path)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != path {
		t.Errorf("DefaultDBPath() = %q, want %q", got, path)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LINGOZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "lingoz", "lingoz.db"); got != want {
		t.Errorf("DefaultDBPath() = %q, want %q", got, want)
	}
}
