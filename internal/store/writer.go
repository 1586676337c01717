package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned when the Writer cannot accept more work.
var ErrQueueFull = errors.New("write queue full")

// ErrWriterClosed is returned for work submitted after Close.
var ErrWriterClosed = errors.New("writer closed")

// DefaultQueueSize is the Writer buffer used by the CLI.
const DefaultQueueSize = 64

const jobTimeout = 5 * time.Second

type job struct {
	name string
	fn   func(ctx context.Context) error
}

// Writer queues writes onto a single background goroutine so callers never
// wait on the database. Reads go straight to the backend. Jobs run in
// submission order.
type Writer struct {
	backend Backend
	logger  *slog.Logger
	jobs    chan job
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewWriter starts a Writer in front of backend with a queue of size
// buffered jobs. A nil logger uses slog.Default().
func NewWriter(backend Backend, size int, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		size = DefaultQueueSize
	}
	w := &Writer{
		backend: backend,
		logger:  logger,
		jobs:    make(chan job, size),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Writer) run() {
	defer close(w.done)
	for j := range w.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		if err := j.fn(ctx); err != nil {
			w.logger.Warn("background write failed", "job", j.name, "err", err)
		}
		cancel()
	}
}

// submit enqueues fn without blocking. When the queue is full the job is
// dropped and logged.
func (w *Writer) submit(name string, fn func(ctx context.Context) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWriterClosed
	}
	select {
	case w.jobs <- job{name: name, fn: fn}:
		return nil
	default:
		w.logger.Warn("dropping background write", "job", name)
		return ErrQueueFull
	}
}

// ReadJSON implements KV by reading from the backend synchronously.
func (w *Writer) ReadJSON(ctx context.Context, key string, v any) error {
	return w.backend.ReadJSON(ctx, key, v)
}

// WriteJSON implements KV. The value is encoded immediately, so later
// mutations by the caller do not leak into the stored blob.
func (w *Writer) WriteJSON(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return w.submit("write "+key, func(ctx context.Context) error {
		return w.backend.WriteRaw(ctx, key, raw)
	})
}

// AppendAnswerEvent implements EventRepo.
func (w *Writer) AppendAnswerEvent(_ context.Context, data AnswerEventData) error {
	return w.submit("answer event", func(ctx context.Context) error {
		return w.backend.AppendAnswerEvent(ctx, data)
	})
}

// AppendSessionEvent implements EventRepo.
func (w *Writer) AppendSessionEvent(_ context.Context, data SessionEventData) error {
	return w.submit("session event "+data.Action, func(ctx context.Context) error {
		return w.backend.AppendSessionEvent(ctx, data)
	})
}

// Close stops accepting work and waits for queued jobs to finish.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()

	<-w.done
	return nil
}

var (
	_ KV        = (*Writer)(nil)
	_ EventRepo = (*Writer)(nil)
)
