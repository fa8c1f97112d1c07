// Package simulator plays many tables of scripted opponents concurrently
// and aggregates per-seat statistics.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/policy"
	"github.com/lox/holdem-table/internal/randutil"
	"github.com/lox/holdem-table/internal/statistics"
	"github.com/lox/holdem-table/internal/table"
	"github.com/lox/holdem-table/poker"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for a simulation run
type Config struct {
	// Table supplies seats, blinds and stacks. The human seat and think
	// delay are ignored.
	Table  *config.Config
	Tables int
	// Hands is the most hands played per table. A table stops earlier
	// when one stack holds every chip.
	Hands int
	// Strategies assigns opponent policies by seat, repeating as needed.
	// Empty uses the table's configured strategy everywhere.
	Strategies  []string
	Seed        int64
	Timeout     time.Duration
	Concurrency int
	Logger      *log.Logger
}

// Result is the outcome of a run
type Result struct {
	Tables     int
	Hands      int
	Finished   int // tables that ended with a single stack
	Seats      map[int]*statistics.Statistics
	Strategies []string
	Seed       int64
	Duration   time.Duration
}

// Simulator runs bot-only tables
type Simulator struct {
	cfg Config
}

// New creates a simulator, filling defaults for unset fields
func New(cfg Config) *Simulator {
	if cfg.Table == nil {
		cfg.Table = config.Default()
	}
	if cfg.Tables <= 0 {
		cfg.Tables = 1
	}
	if cfg.Hands <= 0 {
		cfg.Hands = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	cfg.Seed = randutil.Seed(cfg.Seed)
	return &Simulator{cfg: cfg}
}

// Run plays every table and merges their statistics. Tables are seeded
// from the run seed and their index, so a run is reproducible.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := s.cfg.Logger.WithPrefix("simulator")

	cache, err := poker.NewCache(poker.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	strategies := s.seatStrategies()
	policies, err := buildPolicies(strategies, cache.Evaluate, s.cfg.Logger)
	if err != nil {
		return nil, err
	}

	collectors := make([]*statistics.Collector, s.cfg.Tables)
	hands := make([]int, s.cfg.Tables)
	var finished atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i := range s.cfg.Tables {
		g.Go(func() error {
			c := statistics.NewCollector()
			played, done, err := s.runTable(ctx, i, c, policies, cache.Evaluate)
			if err != nil {
				return fmt.Errorf("table %d: %w", i+1, err)
			}
			collectors[i] = c
			hands[i] = played
			if done {
				finished.Add(1)
			}
			logger.Debug("Table finished", "table", i+1, "hands", played, "decided", done)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Tables:     s.cfg.Tables,
		Finished:   int(finished.Load()),
		Seats:      map[int]*statistics.Statistics{},
		Strategies: strategies,
		Seed:       s.cfg.Seed,
	}
	for i, c := range collectors {
		c.MergeInto(result.Seats)
		result.Hands += hands[i]
	}
	for seat, stats := range result.Seats {
		if err := stats.Validate(); err != nil {
			return nil, fmt.Errorf("seat %d statistics: %w", seat, err)
		}
	}
	result.Duration = time.Since(start)
	logger.Info("Simulation complete", "tables", result.Tables, "hands", result.Hands, "duration", result.Duration)
	return result, nil
}

func (s *Simulator) seatStrategies() []string {
	names := make([]string, s.cfg.Table.Table.Seats)
	for i := range names {
		if len(s.cfg.Strategies) == 0 {
			names[i] = s.cfg.Table.Opponents.Strategy
		} else {
			names[i] = s.cfg.Strategies[i%len(s.cfg.Strategies)]
		}
	}
	return names
}

func buildPolicies(names []string, evaluate poker.EvaluateFunc, logger *log.Logger) ([]policy.Policy, error) {
	policies := make([]policy.Policy, len(names))
	for i, name := range names {
		p, err := policy.New(name, evaluate, logger)
		if err != nil {
			return nil, err
		}
		policies[i] = p
	}
	return policies, nil
}

// runTable plays one table until the hand limit or a single stack remains.
func (s *Simulator) runTable(ctx context.Context, index int, c *statistics.Collector, policies []policy.Policy, evaluate poker.EvaluateFunc) (int, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	cfg := *s.cfg.Table
	cfg.Player.Seat = -1
	cfg.Table.ThinkDelay = "0s"

	bySeat := policy.Func(func(view game.View, rng *rand.Rand) game.Action {
		return policies[view.Seat].Decide(view, rng)
	})

	session, err := table.New(&cfg,
		table.WithRand(randutil.New(s.cfg.Seed+int64(index))),
		table.WithPolicy(bySeat),
		table.WithEvaluator(evaluate),
		table.WithLogger(s.cfg.Logger))
	if err != nil {
		return 0, false, err
	}
	defer session.Close()
	session.Subscribe(c)

	played := 0
	for played < s.cfg.Hands {
		if err := ctx.Err(); err != nil {
			return played, false, fmt.Errorf("stopped after %d hands: %w", played, err)
		}
		err := session.StartHand()
		if errors.Is(err, table.ErrGameOver) {
			return played, true, nil
		}
		if err != nil {
			return played, false, err
		}
		played++
	}

	history := session.ChipHistory()
	total := 0
	for _, chips := range history[len(history)-1].Chips {
		total += chips
	}
	if want := cfg.Table.Seats * cfg.Table.StartingChips; total != want {
		return played, false, fmt.Errorf("chip total %d after %d hands, want %d", total, played, want)
	}
	return played, false, nil
}

// PrintSummary writes a per-seat report of r to w
func PrintSummary(w io.Writer, r *Result) {
	fmt.Fprintf(w, "\n=== SIMULATION: %d tables, %d hands (seed %d) ===\n", r.Tables, r.Hands, r.Seed)
	if r.Finished > 0 {
		fmt.Fprintf(w, "Tables decided before the hand limit: %d\n", r.Finished)
	}

	seats := make([]int, 0, len(r.Seats))
	for seat := range r.Seats {
		seats = append(seats, seat)
	}
	sort.Ints(seats)

	fmt.Fprintf(w, "\n%-5s %-16s %8s %10s %10s %10s %22s\n", "Seat", "Strategy", "Hands", "bb/100", "Median", "StdDev", "95% CI (bb/hand)")
	fmt.Fprintln(w, strings.Repeat("-", 87))
	for _, seat := range seats {
		stats := r.Seats[seat]
		strategy := ""
		if seat < len(r.Strategies) {
			strategy = r.Strategies[seat]
		}
		low, high := stats.ConfidenceInterval95()
		fmt.Fprintf(w, "%-5d %-16s %8d %10.2f %10.3f %10.3f %10.3f .. %7.3f\n",
			seat+1, strategy, stats.Hands, stats.BB100(), stats.Median(), stats.StdDev(), low, high)
	}

	fmt.Fprintf(w, "\n=== PROFIT SOURCE ANALYSIS ===\n")
	for _, seat := range seats {
		stats := r.Seats[seat]
		if stats.Hands == 0 {
			continue
		}
		fmt.Fprintf(w, "Seat %d: %d showdown wins, %d without showdown; showdown %.3f bb/hand, non-showdown %.3f bb/hand\n",
			seat+1, stats.ShowdownWins, stats.NonShowdownWins,
			stats.ShowdownBB/float64(stats.Hands), stats.NonShowdownBB/float64(stats.Hands))
	}
}
