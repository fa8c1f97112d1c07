package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/handhistory"
	"github.com/lox/holdem-table/internal/table"
)

// loadConfig reads the config file and applies flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Seed != 0 {
		cfg.Table.Seed = g.Seed
	}
	if g.Seats != 0 {
		cfg.Table.Seats = g.Seats
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.Logging.File = g.LogFile
	}
	return cfg, nil
}

// setupLogger opens the configured log file. Without one, logs go to
// fallback. The returned func closes the file.
func setupLogger(cfg *config.Config, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	out := fallback
	closeFn := func() {}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return logger, closeFn, nil
}

// attachHistory records finished hands when history.file is set. The
// returned func flushes and detaches the recorder.
func attachHistory(cfg *config.Config, session *table.Session, logger *log.Logger) (func(), error) {
	if cfg.History.File == "" {
		return func() {}, nil
	}
	rec, err := handhistory.NewRecorder(handhistory.Options{
		Path:   cfg.History.File,
		Table:  "holdem",
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	session.Subscribe(rec)
	logger.Info("Recording hand history", "file", cfg.History.File)

	return func() {
		session.Unsubscribe(rec)
		if err := rec.Close(); err != nil {
			logger.Warn("Failed to flush hand history", "error", err)
		}
	}, nil
}

// signalContext is cancelled on interrupt or SIGTERM
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
