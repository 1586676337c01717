// Package review keeps the bounded list of questions the learner missed.
package review

import (
	"sort"
	"time"

	"github.com/abhisek/lingoz/internal/problemgen"
)

// MaxEntries caps the queue. The least recently missed entry is evicted
// first.
const MaxEntries = 40

// Entry is one missed question.
type Entry struct {
	Key      string              `json:"key"`
	Question problemgen.Question `json:"question"`
	Attempts int                 `json:"attempts"`

	// LastMissed is a Unix timestamp in milliseconds.
	LastMissed int64 `json:"lastMissed"`
}

// MissedAt returns LastMissed as a time.
func (e Entry) MissedAt() time.Time {
	return time.UnixMilli(e.LastMissed)
}

// Queue holds missed questions, most recently missed first, unique by
// content key. The zero value is an empty queue.
type Queue struct {
	entries []Entry
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// FromEntries rebuilds a queue from persisted entries. Entries without a
// key or question are skipped, later duplicates of a key are dropped and
// the result is capped at MaxEntries.
func FromEntries(entries []Entry) *Queue {
	q := &Queue{}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Key == "" || e.Question.Prompt == "" || seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		q.entries = append(q.entries, e)
	}
	sortByMissed(q.entries)
	if len(q.entries) > MaxEntries {
		q.entries = q.entries[:MaxEntries]
	}
	return q
}

// Upsert records a miss of question at now. An existing entry with the
// same key is replaced by the new snapshot, moved to the front and its
// attempts incremented.
func (q *Queue) Upsert(question *problemgen.Question, now time.Time) Entry {
	entry := Entry{
		Key:        question.Key,
		Question:   *question,
		Attempts:   1,
		LastMissed: now.UnixMilli(),
	}
	entry.Question.Answers = append([]string(nil), question.Answers...)
	entry.Question.Choices = append([]string(nil), question.Choices...)

	rest := make([]Entry, 0, len(q.entries)+1)
	rest = append(rest, entry)
	for _, e := range q.entries {
		if e.Key == entry.Key {
			rest[0].Attempts = e.Attempts + 1
			continue
		}
		rest = append(rest, e)
	}
	if len(rest) > MaxEntries {
		rest = rest[:MaxEntries]
	}
	q.entries = rest
	return rest[0]
}

// Remove deletes the entry for key and reports whether it existed.
func (q *Queue) Remove(key string) bool {
	for i, e := range q.entries {
		if e.Key == key {
			q.entries = append(q.entries[:i:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the entry for key.
func (q *Queue) Get(key string) (Entry, bool) {
	for _, e := range q.entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Entries returns a copy of the queue in stored order.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Sorted returns a copy ordered by most recently missed first.
func (q *Queue) Sorted() []Entry {
	out := q.Entries()
	sortByMissed(out)
	return out
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.entries = nil
}

func sortByMissed(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastMissed > entries[j].LastMissed
	})
}
