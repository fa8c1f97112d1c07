package simulator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTable() *config.Config {
	cfg := config.Default()
	cfg.Table.Seats = 4
	cfg.Table.StartingChips = 2000
	return cfg
}

func TestNewFillsDefaults(t *testing.T) {
	t.Parallel()

	sim := New(Config{Seed: 12345})
	assert.Equal(t, 1, sim.cfg.Tables)
	assert.Equal(t, 1000, sim.cfg.Hands)
	assert.Equal(t, int64(12345), sim.cfg.Seed)
	assert.NotNil(t, sim.cfg.Table)
	assert.NotNil(t, sim.cfg.Logger)
	assert.Positive(t, sim.cfg.Concurrency)
}

func TestRunAggregatesTables(t *testing.T) {
	t.Parallel()

	sim := New(Config{Table: smallTable(), Tables: 3, Hands: 40, Seed: 99, Timeout: 30 * time.Second})
	result, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Tables)
	assert.LessOrEqual(t, result.Hands, 120)
	assert.Positive(t, result.Hands)
	require.Len(t, result.Seats, 4)

	// Every seat plays every hand of its table until it busts, and chips
	// only move between seats.
	var net float64
	for seat, stats := range result.Seats {
		assert.NoError(t, stats.Validate(), "seat %d", seat)
		assert.Positive(t, stats.Hands)
		net += stats.SumBB
	}
	assert.InDelta(t, 0, net, 1e-6)
}

func TestRunIsReproducible(t *testing.T) {
	t.Parallel()

	run := func() *Result {
		res, err := New(Config{Table: smallTable(), Tables: 2, Hands: 25, Seed: 7}).Run(context.Background())
		require.NoError(t, err)
		return res
	}
	a, b := run(), run()
	assert.Equal(t, a.Hands, b.Hands)
	for seat := range a.Seats {
		assert.Equal(t, a.Seats[seat].Values, b.Seats[seat].Values, "seat %d", seat)
	}
}

func TestRunAssignsStrategiesBySeat(t *testing.T) {
	t.Parallel()

	sim := New(Config{
		Table:      smallTable(),
		Hands:      10,
		Seed:       3,
		Strategies: []string{policy.NameHeuristic, policy.NameCallingStation},
	})
	result, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		policy.NameHeuristic, policy.NameCallingStation,
		policy.NameHeuristic, policy.NameCallingStation,
	}, result.Strategies)
}

func TestRunRejectsUnknownStrategy(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Table: smallTable(), Strategies: []string{"maniac"}}).Run(context.Background())
	assert.ErrorContains(t, err, "unknown opponent strategy")
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{Table: smallTable(), Hands: 10, Seed: 1}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	result, err := New(Config{Table: smallTable(), Hands: 20, Seed: 11}).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, result)
	out := buf.String()
	assert.Contains(t, out, "SIMULATION: 1 tables")
	assert.Contains(t, out, "bb/100")
	assert.Contains(t, out, "PROFIT SOURCE ANALYSIS")
	assert.Contains(t, out, policy.NameHeuristic)
}
