package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Backend used when no database is wanted and in
// tests. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	values   map[string][]byte
	answers  []AnswerEventData
	sessions []SessionEventData
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// ReadJSON implements KV.
func (m *Memory) ReadJSON(_ context.Context, key string, v any) error {
	m.mu.Lock()
	raw, ok := m.values[key]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// WriteJSON implements KV.
func (m *Memory) WriteJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return m.WriteRaw(ctx, key, raw)
}

// WriteRaw stores already-encoded JSON at key.
func (m *Memory) WriteRaw(_ context.Context, key string, raw []byte) error {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	m.mu.Lock()
	m.values[key] = cp
	m.mu.Unlock()
	return nil
}

// AppendAnswerEvent implements EventRepo.
func (m *Memory) AppendAnswerEvent(_ context.Context, data AnswerEventData) error {
	m.mu.Lock()
	m.answers = append(m.answers, data)
	m.mu.Unlock()
	return nil
}

// AppendSessionEvent implements EventRepo.
func (m *Memory) AppendSessionEvent(_ context.Context, data SessionEventData) error {
	m.mu.Lock()
	m.sessions = append(m.sessions, data)
	m.mu.Unlock()
	return nil
}

// AnswerEvents returns a copy of the recorded answer events.
func (m *Memory) AnswerEvents() []AnswerEventData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AnswerEventData(nil), m.answers...)
}

// SessionEvents returns a copy of the recorded session events.
func (m *Memory) SessionEvents() []SessionEventData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SessionEventData(nil), m.sessions...)
}

// Raw returns the stored bytes for key, for assertions.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.values[key]
	return raw, ok
}

var _ Backend = (*Memory)(nil)
