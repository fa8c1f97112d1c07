package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/server"
	"github.com/lox/holdem-table/internal/table"
)

// ServeCmd exposes the table over WebSocket
type ServeCmd struct {
	Addr      string        `help:"Listen address (overrides the config file)"`
	Spectate  bool          `help:"Seat no human; every seat is a scripted opponent"`
	DealEvery time.Duration `help:"Deal the next hand automatically after this pause (0 waits for clients)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Spectate {
		cfg.Player.Seat = -1
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	session, err := table.New(cfg, table.WithLogger(logger))
	if err != nil {
		return err
	}
	defer session.Close()

	detach, err := attachHistory(cfg, session, logger)
	if err != nil {
		return err
	}
	defer detach()

	ctx, cancel := signalContext(logger)
	defer cancel()

	if c.DealEvery > 0 {
		go autoDeal(ctx, session, c.DealEvery, logger)
	}

	srv := server.NewServer(session, logger)
	return srv.ListenAndServe(ctx, cfg.Server.Address)
}

// autoDeal starts a hand whenever the table is idle. A finished game is
// reset so a spectator table keeps running.
func autoDeal(ctx context.Context, session *table.Session, every time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if session.InHand() {
			continue
		}
		err := session.StartHand()
		switch {
		case errors.Is(err, table.ErrGameOver):
			logger.Info("Game over, starting a new game", "hands", session.HandNumber())
			session.Reset()
		case err != nil:
			logger.Error("Failed to deal", "error", err)
		}
	}
}
