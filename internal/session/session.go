package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingoz/internal/mastery"
	"github.com/abhisek/lingoz/internal/problemgen"
	"github.com/abhisek/lingoz/internal/review"
	"github.com/abhisek/lingoz/internal/skills"
	"github.com/abhisek/lingoz/internal/store"
)

// AutoAdvanceDelay is how long a correct answer stays on screen before the
// next question is served.
const AutoAdvanceDelay = 700 * time.Millisecond

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// ErrEmptyAnswer is returned when an answer is submitted with no content.
var ErrEmptyAnswer = errors.New("choose an answer")

// ErrNoSuchChoice is returned for a choice index outside the choice set.
var ErrNoSuchChoice = errors.New("no such choice")

// Storage is the key-value collaborator the controller persists through.
// store.KV implementations satisfy it.
type Storage = store.KV

// Config wires a Controller to its collaborators. Only Generator is
// required.
type Config struct {
	Generator *problemgen.Generator

	// Rand drives mix-mode skill selection. Defaults to a time-seeded source.
	Rand problemgen.Rand

	Storage Storage
	Events  store.EventRepo
	Keys    Keys

	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger

	// OnComplete is called when a session finishes.
	OnComplete func(*Summary)
}

// Controller runs practice sessions. It is not safe for concurrent use;
// the TUI update loop is its only caller.
type Controller struct {
	gen        *problemgen.Generator
	rnd        problemgen.Rand
	storage    Storage
	events     store.EventRepo
	keys       Keys
	now        func() time.Time
	logger     *slog.Logger
	onComplete func(*Summary)

	// Durable state.
	stats    mastery.Stats
	mode     Mode
	settings Settings
	wrongQ   *review.Queue

	// Session state.
	phase         Phase
	sessionID     string
	startedAt     time.Time
	question      *problemgen.Question
	questionStart time.Time
	answered      bool
	feedback      *Feedback
	correct       int
	wrong         int
	index         int
	total         int
	timeLeft      int
	timeLimit     int
	reviewQueue   []review.Entry
	results       map[skills.Skill]*SkillResult
	summary       *Summary
	last          *problemgen.LastOutcome

	seq            Token
	tickToken      Token
	advanceToken   Token
	advancePending bool
}

// NewController creates an idle controller with default state. Call Load
// to restore persisted state.
func NewController(cfg Config) *Controller {
	c := &Controller{
		gen:        cfg.Generator,
		rnd:        cfg.Rand,
		storage:    cfg.Storage,
		events:     cfg.Events,
		keys:       cfg.Keys,
		now:        cfg.Now,
		logger:     cfg.Logger,
		onComplete: cfg.OnComplete,
		stats:      mastery.NewStats(),
		mode:       ModeMix,
		settings:   DefaultSettings(),
		wrongQ:     review.New(),
	}
	if c.rnd == nil {
		c.rnd = newTimeSeededRand()
	}
	if c.keys == (Keys{}) {
		c.keys = KeysFor(DefaultPrefix)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Load restores stats, mode, settings and the wrong-answer bank. Missing
// or malformed entries fall back to defaults.
func (c *Controller) Load(ctx context.Context) {
	if c.storage == nil {
		return
	}

	var saved savedSession
	if c.read(ctx, c.keys.Session, &saved) {
		if saved.Stats != nil {
			c.stats = mastery.Normalize(saved.Stats)
		}
		if saved.Mode.Valid() {
			c.mode = saved.Mode
		}
	}

	settings := DefaultSettings()
	if c.read(ctx, c.keys.Settings, &settings) {
		c.settings = NormalizeSettings(settings)
	}

	var entries []review.Entry
	if c.read(ctx, c.keys.WrongQuestions, &entries) {
		c.wrongQ = review.FromEntries(entries)
	}

	c.logger.Debug("state loaded",
		"mode", c.mode,
		"wrong_questions", c.wrongQ.Len(),
		"question_count", c.settings.QuestionCount,
	)
}

func newTimeSeededRand() problemgen.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (c *Controller) read(ctx context.Context, key string, v any) bool {
	err := c.storage.ReadJSON(ctx, key, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, store.ErrNotFound):
	default:
		c.logger.Warn("ignoring stored value", "key", key, "err", err)
	}
	return false
}

// Start begins a session in mode. It returns false, leaving the controller
// idle, when there is nothing to ask (an empty review bank).
func (c *Controller) Start(mode Mode) bool {
	c.cancelTimers()
	if !mode.Valid() {
		c.logger.Warn("unknown mode, using mix", "mode", mode)
		mode = ModeMix
	}

	var queue []review.Entry
	if mode == ModeReview {
		queue = c.wrongQ.Sorted()
		if len(queue) > c.settings.QuestionCount {
			queue = queue[:c.settings.QuestionCount]
		}
		if len(queue) == 0 {
			c.toIdle()
			return false
		}
	}

	c.mode = mode
	c.persistSession()

	c.correct, c.wrong = 0, 0
	c.index = 1
	c.results = make(map[skills.Skill]*SkillResult)
	c.summary = nil
	c.feedback = nil
	c.reviewQueue = queue
	c.total = c.settings.QuestionCount
	if mode == ModeReview {
		c.total = len(queue)
	}

	q := c.nextQuestion()
	if q == nil {
		c.toIdle()
		return false
	}

	c.phase = PhaseActive
	c.sessionID = uuid.NewString()
	c.startedAt = c.now()
	c.begin(q)

	c.appendSessionEvent(store.SessionStart)
	c.logger.Info("session started", "session_id", c.sessionID, "mode", mode, "total", c.total)
	return true
}

func (c *Controller) nextQuestion() *problemgen.Question {
	if c.mode == ModeReview {
		if len(c.reviewQueue) == 0 {
			return nil
		}
		entry := c.reviewQueue[0]
		c.reviewQueue = c.reviewQueue[1:]
		q := entry.Question
		q.ID = uuid.NewString()
		return &q
	}

	skill, ok := c.mode.Skill()
	if !ok {
		if c.last != nil && !c.last.Correct {
			skill = c.last.Skill
		} else {
			skill = PickSkill(c.stats, c.rnd)
		}
	}
	st := c.stats.Get(skill)
	q, err := c.gen.Generate(problemgen.GenerateInput{
		Skill:    skill,
		Level:    st.Level,
		Stats:    st,
		Previous: c.last,
	})
	if err != nil {
		c.logger.Error("generate question", "skill", skill, "err", err)
		return nil
	}
	return q
}

func (c *Controller) begin(q *problemgen.Question) {
	c.question = q
	c.answered = false
	c.feedback = nil
	c.questionStart = c.now()
	c.timeLimit = c.settings.TimeLimitSeconds
	c.timeLeft = c.timeLimit
	c.tickToken = c.nextToken()
}

func (c *Controller) nextToken() Token {
	c.seq++
	return c.seq
}

// Tick advances the countdown by one second for the question identified
// by token. It reports whether another tick should be scheduled. Stale
// tokens and resolved questions are ignored.
func (c *Controller) Tick(token Token) bool {
	if c.phase != PhaseActive || c.question == nil || c.answered || token != c.tickToken {
		return false
	}
	c.timeLeft--
	if c.timeLeft > 0 {
		return true
	}
	c.timeLeft = 0
	c.record(false, int64(c.timeLimit)*1000, true, "")
	return false
}

// Submit checks a typed answer. Empty input returns ErrEmptyAnswer and
// changes nothing; answers to resolved questions are ignored.
func (c *Controller) Submit(value string) error {
	if c.phase != PhaseActive || c.question == nil || c.answered {
		return nil
	}
	cleaned := problemgen.SanitizeInput(strings.TrimSpace(value))
	if cleaned == "" {
		return ErrEmptyAnswer
	}
	correct := problemgen.CheckAnswer(cleaned, c.question)
	c.record(correct, c.elapsedMs(), false, cleaned)
	return nil
}

// SelectChoice submits the choice at index.
func (c *Controller) SelectChoice(index int) error {
	if c.phase != PhaseActive || c.question == nil || c.answered {
		return nil
	}
	if index < 0 || index >= len(c.question.Choices) {
		return ErrNoSuchChoice
	}
	return c.Submit(c.question.Choices[index])
}

func (c *Controller) elapsedMs() int64 {
	return max(c.now().Sub(c.questionStart).Milliseconds(), 0)
}

// record is the single place an outcome is applied, for answers and
// timeouts alike.
func (c *Controller) record(correct bool, elapsedMs int64, timedOut bool, answer string) {
	q := c.question
	levelBefore := c.stats.Get(q.Skill).Level
	c.stats = mastery.Update(c.stats, q.Skill, correct, elapsedMs)
	levelAfter := c.stats.Get(q.Skill).Level

	if correct {
		c.wrongQ.Remove(q.Key)
		c.correct++
	} else {
		c.wrongQ.Upsert(q, c.now())
		c.wrong++
	}

	sr, ok := c.results[q.Skill]
	if !ok {
		sr = &SkillResult{Skill: q.Skill, LevelBefore: levelBefore}
		c.results[q.Skill] = sr
	}
	sr.Attempted++
	if correct {
		sr.Correct++
	}
	sr.LevelAfter = levelAfter

	c.feedback = &Feedback{
		Correct:     correct,
		Expected:    q.Expected(),
		Answer:      answer,
		ElapsedMs:   elapsedMs,
		Skill:       q.Skill,
		Level:       q.Level,
		LevelBefore: levelBefore,
		NewLevel:    levelAfter,
		TimedOut:    timedOut,
		Tip:         q.Tip,
	}
	c.last = problemgen.OutcomeOf(q, correct)
	c.answered = true
	c.tickToken = 0

	if correct {
		c.advanceToken = c.nextToken()
		c.advancePending = true
	}

	c.persistSession()
	c.persistWrongQuestions()
	c.appendAnswerEvent(q, answer, correct, timedOut, elapsedMs)

	c.logger.Debug("answer recorded",
		"skill", q.Skill,
		"key", q.Key,
		"correct", correct,
		"timed_out", timedOut,
		"elapsed_ms", elapsedMs,
		"level", levelAfter,
	)
}

// PendingAdvance returns the token of an armed auto-advance.
func (c *Controller) PendingAdvance() (Token, bool) {
	return c.advanceToken, c.advancePending
}

// AutoAdvance fires the auto-advance identified by token. Cancelled or
// superseded advances do nothing.
func (c *Controller) AutoAdvance(token Token) {
	if !c.advancePending || token != c.advanceToken {
		return
	}
	c.Advance()
}

// Advance serves the next question once the current one is resolved, or
// finishes the session when the quota is used up.
func (c *Controller) Advance() {
	if c.phase != PhaseActive || c.question == nil || !c.answered {
		return
	}
	c.cancelAdvance()

	if c.index+1 > c.total {
		c.finish()
		return
	}
	q := c.nextQuestion()
	if q == nil {
		c.finish()
		return
	}
	c.index++
	c.begin(q)
}

func (c *Controller) finish() {
	c.cancelTimers()
	c.phase = PhaseFinished
	c.question = nil
	c.answered = false
	c.summary = c.buildSummary()

	c.appendSessionEvent(store.SessionEnd)
	c.logger.Info("session finished",
		"session_id", c.sessionID,
		"correct", c.correct,
		"wrong", c.wrong,
	)
	if c.onComplete != nil {
		c.onComplete(c.summary)
	}
}

// Menu returns to idle. An active session is abandoned: its unanswered
// question is discarded and its last outcome forgotten. Leaving a finished
// session keeps the last outcome so the next mix session can double down.
func (c *Controller) Menu() {
	if c.phase == PhaseActive {
		c.appendSessionEvent(store.SessionAbandoned)
		c.logger.Info("session abandoned", "session_id", c.sessionID)
		c.last = nil
	}
	c.toIdle()
}

func (c *Controller) toIdle() {
	c.cancelTimers()
	c.phase = PhaseIdle
	c.question = nil
	c.answered = false
	c.feedback = nil
	c.reviewQueue = nil
}

func (c *Controller) cancelTimers() {
	c.cancelAdvance()
	c.tickToken = 0
}

func (c *Controller) cancelAdvance() {
	c.advancePending = false
	c.advanceToken = 0
}

// ResetStats clears mastery and the wrong-answer bank.
func (c *Controller) ResetStats() {
	c.stats = mastery.NewStats()
	c.wrongQ.Clear()
	c.persistSession()
	c.persistWrongQuestions()
	c.logger.Info("stats reset")
}

// AdjustSetting moves a setting by delta steps. Unknown ids are ignored.
func (c *Controller) AdjustSetting(id ControlID, delta int) {
	ctl, ok := LookupControl(id)
	if !ok {
		return
	}
	c.settings = ctl.Adjust(c.settings, delta)
	c.persistSettings()
}

// SetSettings replaces the settings, clamping out-of-range values.
func (c *Controller) SetSettings(s Settings) {
	c.settings = NormalizeSettings(s)
	c.persistSettings()
}

// Snapshot returns a read-only copy of the state the presentation needs.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:      c.phase,
		Mode:       c.mode,
		Settings:   c.settings,
		Stats:      c.stats.Clone(),
		Answered:   c.answered,
		Correct:    c.correct,
		Wrong:      c.wrong,
		Index:      c.index,
		Total:      c.total,
		TimeLeft:   c.timeLeft,
		TickToken:  c.tickToken,
		WrongCount: c.wrongQ.Len(),
	}
	if c.question != nil {
		q := *c.question
		q.Choices = append([]string(nil), c.question.Choices...)
		q.Answers = append([]string(nil), c.question.Answers...)
		snap.Question = &q
	}
	if c.feedback != nil {
		fb := *c.feedback
		snap.Feedback = &fb
	}
	if c.summary != nil {
		sum := *c.summary
		snap.Summary = &sum
	}
	return snap
}

// WrongQuestions returns the wrong-answer bank, most recently missed first.
func (c *Controller) WrongQuestions() []review.Entry {
	return c.wrongQ.Sorted()
}

func (c *Controller) persistSession() {
	c.write(c.keys.Session, savedSession{Stats: c.stats, Mode: c.mode})
}

func (c *Controller) persistSettings() {
	c.write(c.keys.Settings, c.settings)
}

func (c *Controller) persistWrongQuestions() {
	c.write(c.keys.WrongQuestions, c.wrongQ.Entries())
}

func (c *Controller) write(key string, v any) {
	if c.storage == nil {
		return
	}
	if err := c.storage.WriteJSON(context.Background(), key, v); err != nil {
		c.logger.Warn("persist failed", "key", key, "err", err)
	}
}

func (c *Controller) appendAnswerEvent(q *problemgen.Question, answer string, correct, timedOut bool, elapsedMs int64) {
	if c.events == nil {
		return
	}
	err := c.events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:     c.sessionID,
		Skill:         string(q.Skill),
		QuestionKey:   q.Key,
		Level:         q.Level,
		Band:          q.Band,
		LearnerAnswer: answer,
		Correct:       correct,
		TimedOut:      timedOut,
		TimeMs:        elapsedMs,
	})
	if err != nil {
		c.logger.Warn("append answer event", "err", err)
	}
}

func (c *Controller) appendSessionEvent(action string) {
	if c.events == nil {
		return
	}
	err := c.events.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID:       c.sessionID,
		Action:          action,
		Mode:            string(c.mode),
		QuestionsServed: c.correct + c.wrong,
		CorrectAnswers:  c.correct,
		DurationSecs:    int(c.now().Sub(c.startedAt).Seconds()),
	})
	if err != nil {
		c.logger.Warn("append session event", "action", action, "err", err)
	}
}
