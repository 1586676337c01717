package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/lingoz/internal/config"
	"github.com/abhisek/lingoz/internal/content"
	"github.com/abhisek/lingoz/internal/problemgen"
	"github.com/abhisek/lingoz/internal/session"
	"github.com/abhisek/lingoz/internal/store"
)

// env is everything a command needs to drive the controller.
type env struct {
	store  *store.Store
	writer *store.Writer
	bank   *content.Bank
	ctrl   *session.Controller
	logger *slog.Logger

	closers []io.Closer
}

// newLogger builds the process logger. While the TUI owns the terminal
// records go to the configured log file; otherwise to stderr.
func newLogger(toFile bool) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if !toFile {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

// openStore opens the database at the configured path.
func openStore() (*store.Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		dbPath = p
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// loadBank returns the question bank from the configured source.
func loadBank(ctx context.Context, st *store.Store) (*content.Bank, error) {
	if cfg.ContentSource != config.SourceDatabase {
		bank, err := content.Default()
		if err != nil {
			return nil, fmt.Errorf("load embedded bank: %w", err)
		}
		return bank, nil
	}
	bank, err := st.LoadBank(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank from database (run `lingoz seed` first): %w", err)
	}
	return bank, nil
}

// openEnv wires the store, the asynchronous writer and a loaded controller.
func openEnv(ctx context.Context, tui bool) (*env, error) {
	logger, logFile, err := newLogger(tui)
	if err != nil {
		return nil, err
	}
	e := &env{logger: logger}
	if logFile != nil {
		e.closers = append(e.closers, logFile)
	}

	st, err := openStore()
	if err != nil {
		e.Close()
		return nil, err
	}
	e.store = st
	e.closers = append(e.closers, st)

	bank, err := loadBank(ctx, st)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.bank = bank

	// The writer must drain before the store closes.
	e.writer = store.NewWriter(st, store.DefaultQueueSize, logger)
	e.closers = append(e.closers, e.writer)

	keys := session.KeysFor(cfg.Prefix)
	e.ctrl = session.NewController(session.Config{
		Generator: problemgen.New(bank, nil),
		Storage:   e.writer,
		Events:    e.writer,
		Keys:      keys,
		Logger:    logger,
		OnComplete: func(s *session.Summary) {
			logger.Info("session complete", "id", s.SessionID, "mode", s.Mode,
				"questions", s.TotalQuestions, "correct", s.TotalCorrect)
		},
	})
	e.ctrl.Load(ctx)

	e.seedSettings(ctx, keys)
	return e, nil
}

// seedSettings applies configured practice settings when none have been
// saved yet.
func (e *env) seedSettings(ctx context.Context, keys session.Keys) {
	if cfg.Questions == 0 && cfg.TimeLimit == 0 {
		return
	}
	var saved session.Settings
	err := e.store.ReadJSON(ctx, keys.Settings, &saved)
	switch {
	case err == nil:
		return
	case !errors.Is(err, store.ErrNotFound):
		e.logger.Warn("read saved settings", "error", err)
		return
	}

	s := e.ctrl.Snapshot().Settings
	if cfg.Questions != 0 {
		s.QuestionCount = cfg.Questions
	}
	if cfg.TimeLimit != 0 {
		s.TimeLimitSeconds = cfg.TimeLimit
	}
	e.ctrl.SetSettings(s)
}

// Close flushes pending writes and releases resources in reverse order.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
