package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// sequenceCounter hands out one increasing sequence shared by every event
// table, so answers and session transitions can be ordered against each
// other.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// AppendAnswerEvent implements EventRepo.
func (s *Store) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO answer_events (sequence, timestamp, session_id, skill, question_key, level, band, learner_answer, correct, timed_out, time_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		time.Now().UTC().Format(time.RFC3339Nano),
		data.SessionID,
		data.Skill,
		data.QuestionKey,
		data.Level,
		data.Band,
		data.LearnerAnswer,
		boolInt(data.Correct),
		boolInt(data.TimedOut),
		data.TimeMs,
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

// AppendSessionEvent implements EventRepo.
func (s *Store) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_events (sequence, timestamp, session_id, action, mode, questions_served, correct_answers, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		time.Now().UTC().Format(time.RFC3339Nano),
		data.SessionID,
		data.Action,
		data.Mode,
		data.QuestionsServed,
		data.CorrectAnswers,
		data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

// Totals aggregates the lifetime event log.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var t Totals

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_events WHERE action = ?`, SessionEnd,
	).Scan(&t.Sessions)
	if err != nil {
		return Totals{}, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT skill, COUNT(*), SUM(correct), SUM(timed_out), AVG(time_ms)
		 FROM answer_events GROUP BY skill ORDER BY skill`)
	if err != nil {
		return Totals{}, fmt.Errorf("aggregate answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st SkillTotals
		if err := rows.Scan(&st.Skill, &st.Attempts, &st.Correct, &st.TimedOut, &st.AverageMs); err != nil {
			return Totals{}, fmt.Errorf("scan totals: %w", err)
		}
		t.Answers += st.Attempts
		t.Correct += st.Correct
		t.PerSkill = append(t.PerSkill, st)
	}
	if err := rows.Err(); err != nil {
		return Totals{}, fmt.Errorf("iterate totals: %w", err)
	}

	var last sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT MAX(timestamp) FROM answer_events`).Scan(&last)
	if err != nil {
		return Totals{}, fmt.Errorf("latest answer: %w", err)
	}
	if last.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, last.String); err == nil {
			t.LastAnswered = ts
		}
	}
	return t, nil
}
