package main

import (
	"fmt"
	"io"

	"github.com/lox/holdem-table/internal/table"
	"github.com/lox/holdem-table/internal/tui"
)

// PlayCmd runs the interactive table
type PlayCmd struct {
	Name       string `help:"Your player name (overrides the config file)"`
	Seat       *int   `help:"Your seat (overrides the config file)"`
	Opponents  string `help:"Opponent strategy (overrides the config file)"`
	ThinkDelay string `help:"Delay before each opponent acts, e.g. 500ms"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Name != "" {
		cfg.Player.Name = c.Name
	}
	if c.Seat != nil {
		cfg.Player.Seat = *c.Seat
	}
	if c.Opponents != "" {
		cfg.Opponents.Strategy = c.Opponents
	}
	if c.ThinkDelay != "" {
		cfg.Table.ThinkDelay = c.ThinkDelay
	}
	if cfg.Player.Seat < 0 {
		return fmt.Errorf("play needs a human seat; use simulate or serve for bot-only tables")
	}

	// The terminal belongs to the TUI, so logs only go to a file.
	logger, closeLog, err := setupLogger(cfg, io.Discard)
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

	logger.Info("Starting game", "seats", cfg.Table.Seats, "seed", cfg.Table.Seed, "opponents", cfg.Opponents.Strategy)
	if err := tui.Run(ctx, session, logger); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	history := session.ChipHistory()
	last := history[len(history)-1]
	view := session.Snapshot()
	if view.HumanSeat >= 0 && view.HumanSeat < len(last.Chips) {
		fmt.Printf("Played %d hands. You finished with %d chips.\n", last.Hand, last.Chips[view.HumanSeat])
	}
	return nil
}
