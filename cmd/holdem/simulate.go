package main

import (
	"os"
	"time"

	"github.com/lox/holdem-table/internal/simulator"
)

// SimulateCmd runs bot-only tables in parallel
type SimulateCmd struct {
	Tables      int           `default:"4" help:"Number of independent tables"`
	Hands       int           `default:"1000" help:"Maximum hands per table"`
	Strategies  []string      `help:"Opponent strategy per seat, repeated around the table"`
	Concurrency int           `help:"Tables run at once (default GOMAXPROCS)"`
	Timeout     time.Duration `default:"5m" help:"Time limit per table"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Table:       cfg,
		Tables:      c.Tables,
		Hands:       c.Hands,
		Strategies:  c.Strategies,
		Seed:        cfg.Table.Seed,
		Timeout:     c.Timeout,
		Concurrency: c.Concurrency,
		Logger:      logger,
	})
	result, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, result)
	return nil
}
