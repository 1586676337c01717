package session

import (
	"fmt"

	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/problemgen"
	"github.com/abhisek/lingoz/internal/skills"
)

// Mode selects where questions come from: one skill, an adaptive mix, or
// the wrong-answer bank.
type Mode string

const (
	ModeMix    Mode = "mix"
	ModeReview Mode = "review"
)

// SkillMode returns the mode that drills a single skill.
func SkillMode(s skills.Skill) Mode { return Mode(s) }

// Skill returns the fixed skill of a single-skill mode.
func (m Mode) Skill() (skills.Skill, bool) {
	s := skills.Skill(m)
	return s, s.Valid()
}

// Valid reports whether m is mix, review or a known skill.
func (m Mode) Valid() bool {
	_, ok := m.Skill()
	return ok || m == ModeMix || m == ModeReview
}

// Label is the learner-facing name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeMix:
		return "Mixed practice"
	case ModeReview:
		return "Wrong answers"
	}
	if s, ok := m.Skill(); ok {
		return s.Label()
	}
	return string(m)
}

// ParseMode converts a CLI or stored value into a Mode.
func ParseMode(v string) (Mode, error) {
	m := Mode(v)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q", v)
	}
	return m, nil
}

// Phase is the controller's lifecycle state.
type Phase int

const (
	PhaseIdle     Phase = iota // On the menu
	PhaseActive                // Serving questions
	PhaseFinished              // Showing the summary
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "idle"
	}
}

// Token identifies one scheduled timer. A timer whose token no longer
// matches the controller's is stale and does nothing when it fires.
type Token uint64

// Feedback describes the outcome of the current question.
type Feedback struct {
	Correct   bool
	Expected  string
	Answer    string
	ElapsedMs int64
	Skill     skills.Skill

	// Level is the level the question was served at. LevelBefore and
	// NewLevel bracket the mastery update this outcome caused.
	Level       int
	LevelBefore int
	NewLevel    int

	TimedOut bool
	Tip      string
}

// LeveledUp reports whether the outcome raised the skill's level.
func (f Feedback) LeveledUp() bool { return f.NewLevel > f.LevelBefore }

// LeveledDown reports whether the outcome lowered the skill's level.
func (f Feedback) LeveledDown() bool { return f.NewLevel < f.LevelBefore }

// Snapshot is a read-only view of the controller for rendering.
type Snapshot struct {
	Phase    Phase
	Mode     Mode
	Settings Settings
	Stats    mastery.Stats

	// Question is nil outside an active session.
	Question *problemgen.Question
	Answered bool
	Feedback *Feedback

	Correct  int
	Wrong    int
	Index    int
	Total    int
	TimeLeft int

	// TickToken identifies the countdown of the current question.
	TickToken Token

	WrongCount int
	Summary    *Summary
}

// Keys are the storage keys the controller reads and writes.
type Keys struct {
	Session        string
	Settings       string
	WrongQuestions string
}

// DefaultPrefix namespaces storage keys when none is configured.
const DefaultPrefix = "english-training"

// KeysFor builds the storage keys under prefix.
func KeysFor(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{
		Session:        prefix + ":session",
		Settings:       prefix + ":settings",
		WrongQuestions: prefix + ":wrong-questions",
	}
}

// savedSession is the blob stored under Keys.Session.
type savedSession struct {
	Stats mastery.Stats `json:"stats"`
	Mode  Mode          `json:"mode"`
}
