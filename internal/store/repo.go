package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("not found")

// KV reads and writes JSON blobs under well-known keys.
type KV interface {
	// ReadJSON decodes the value stored at key into v. It returns
	// ErrNotFound when the key is absent.
	ReadJSON(ctx context.Context, key string, v any) error

	// WriteJSON encodes v and stores it at key, replacing any previous value.
	WriteJSON(ctx context.Context, key string, v any) error
}

// AnswerEventData captures one answered or timed-out question.
type AnswerEventData struct {
	SessionID     string
	Skill         string
	QuestionKey   string
	Level         int
	Band          int
	LearnerAnswer string
	Correct       bool
	TimedOut      bool
	TimeMs        int64
}

// Session event actions.
const (
	SessionStart     = "start"
	SessionEnd       = "end"
	SessionAbandoned = "abandoned"
)

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID       string
	Action          string
	Mode            string
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendAnswerEvent records an answered question.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendSessionEvent records a session start, end or abandonment.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
}

// SkillTotals aggregates every recorded answer for one skill.
type SkillTotals struct {
	Skill     string
	Attempts  int
	Correct   int
	TimedOut  int
	AverageMs float64
}

// Totals aggregates the whole event log.
type Totals struct {
	Sessions     int
	Answers      int
	Correct      int
	PerSkill     []SkillTotals
	LastAnswered time.Time
}

// Backend is everything the asynchronous Writer forwards to.
type Backend interface {
	EventRepo
	ReadJSON(ctx context.Context, key string, v any) error
	WriteRaw(ctx context.Context, key string, raw []byte) error
}
