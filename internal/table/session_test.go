package table

import (
	"context"
	"errors"
	rand "math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/policy"
	"github.com/lox/holdem-table/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mutate func(*config.Config)) *config.Config {
	cfg := config.Default()
	cfg.Table.Seats = 3
	cfg.Table.StartingChips = 1000
	cfg.Table.Seed = 7
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

func newMockSession(t *testing.T, mutate func(*config.Config), opts ...Option) (*Session, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC))
	s, err := New(testConfig(mutate), append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, clock
}

func instant(c *config.Config) { c.Table.ThinkDelay = "0s" }

func botsOnly(c *config.Config) {
	c.Table.ThinkDelay = "0s"
	c.Player.Seat = -1
}

// runOpponents fires scheduled opponent turns until the human is to act or
// the hand is over.
func runOpponents(t *testing.T, s *Session, clock *quartz.Mock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for range 100 {
		v := s.Snapshot()
		if !s.InHand() || v.ActiveSeat == v.HumanSeat {
			return
		}
		_, w := clock.AdvanceNext()
		w.MustWait(ctx)
	}
	t.Fatal("opponents did not hand the turn back")
}

func chipTotal(v TableView) int {
	total := v.Pot
	for _, p := range v.Players {
		total += p.Chips
	}
	return total
}

func TestNewSeatsPlayers(t *testing.T) {
	t.Parallel()

	s, _ := newMockSession(t, func(c *config.Config) {
		c.Table.Seats = 4
		c.Player.Seat = 1
		c.Player.Name = "Hero"
	})

	v := s.Snapshot()
	require.Len(t, v.Players, 4)
	assert.Equal(t, game.Idle, v.Stage)
	assert.Equal(t, 1, v.HumanSeat)
	assert.Equal(t, []string{"Bot 1", "Hero", "Bot 2", "Bot 3"},
		[]string{v.Players[0].Name, v.Players[1].Name, v.Players[2].Name, v.Players[3].Name})
	assert.True(t, v.Players[1].Human)
	assert.False(t, v.Players[0].Human)

	history := s.ChipHistory()
	require.Len(t, history, 1)
	assert.Equal(t, ChipPoint{Hand: 0, Chips: []int{1000, 1000, 1000, 1000}}, history[0])

	_, ok := s.RoundSummary()
	assert.False(t, ok)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(testConfig(func(c *config.Config) { c.Table.Seats = 1 }))
	assert.Error(t, err)
}

func TestSubmitActionWithoutHand(t *testing.T) {
	t.Parallel()

	s, _ := newMockSession(t, nil)
	err := s.SubmitAction(0, game.Action{Kind: game.Fold})
	assert.ErrorIs(t, err, ErrNoHand)
}

func TestOpponentTurnsAreScheduled(t *testing.T) {
	t.Parallel()

	s, clock := newMockSession(t, func(c *config.Config) { c.Table.Seats = 6 })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Find a hand where an opponent acts first.
	var v TableView
	for range 6 {
		require.NoError(t, s.StartHand())
		v = s.Snapshot()
		if v.ActiveSeat != v.HumanSeat {
			break
		}
		require.NoError(t, s.SubmitAction(0, game.Action{Kind: game.Fold}))
		runOpponents(t, s, clock)
		require.False(t, s.InHand())
	}
	require.NotEqual(t, v.HumanSeat, v.ActiveSeat)

	d, ok := clock.Peek()
	require.True(t, ok, "an opponent turn should be scheduled")
	assert.Equal(t, time.Second, d)

	// Nothing happens until the think delay passes.
	assert.Equal(t, v.ActiveSeat, s.Snapshot().ActiveSeat)

	err := s.SubmitAction(0, game.Action{Kind: game.Fold})
	assert.ErrorIs(t, err, game.ErrOutOfTurn)
	err = s.SubmitAction(v.ActiveSeat, game.Action{Kind: game.Fold})
	assert.ErrorIs(t, err, game.ErrOutOfTurn, "opponent seats are played by the table")

	_, w := clock.AdvanceNext()
	w.MustWait(ctx)

	after := s.Snapshot()
	assert.True(t, after.ActiveSeat != v.ActiveSeat || !s.InHand(), "the opponent should have acted")
	assert.Equal(t, 6000, chipTotal(after))
}

func TestHandPlaysToSummary(t *testing.T) {
	t.Parallel()

	s, clock := newMockSession(t, nil)
	require.NoError(t, s.StartHand())
	assert.ErrorIs(t, s.StartHand(), ErrHandInProgress)

	for steps := 0; s.InHand(); steps++ {
		require.Less(t, steps, 50)
		runOpponents(t, s, clock)
		if !s.InHand() {
			break
		}
		v := s.Snapshot()
		require.NotEmpty(t, v.ValidActions)
		kind := game.Call
		if v.ToCall() == 0 {
			kind = game.Check
		}
		require.NoError(t, s.SubmitAction(v.HumanSeat, game.Action{Kind: kind}))
	}

	summary, ok := s.RoundSummary()
	require.True(t, ok)
	assert.Equal(t, 1, summary.HandNumber)
	assert.NotEmpty(t, summary.Winners)
	assert.NotEmpty(t, summary.HandID)

	net := 0
	for _, n := range summary.NetChange {
		net += n
	}
	assert.Equal(t, 0, net)

	awarded := 0
	for _, w := range summary.Winners {
		awarded += w.Amount
	}
	assert.Equal(t, summary.Pot, awarded)

	v := s.Snapshot()
	assert.Equal(t, 3000, chipTotal(v))
	assert.Equal(t, 0, v.Pot)
	require.NotNil(t, v.Summary)

	history := s.ChipHistory()
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[1].Hand)
	for i, p := range v.Players {
		assert.Equal(t, p.Chips, history[1].Chips[i])
	}

	// The summary is cleared by the next hand.
	require.NoError(t, s.StartHand())
	_, ok = s.RoundSummary()
	assert.False(t, ok)
}

func TestRejectedActionIsLogged(t *testing.T) {
	t.Parallel()

	s, clock := newMockSession(t, nil)
	require.NoError(t, s.StartHand())
	runOpponents(t, s, clock)
	if !s.InHand() {
		t.Skip("opponents finished the hand before the human acted")
	}

	before := s.Snapshot()
	err := s.SubmitAction(before.HumanSeat, game.Action{Kind: game.Raise, Amount: 1})
	var actionErr *game.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.ErrorIs(t, err, game.ErrIllegalAction)

	after := s.Snapshot()
	assert.Equal(t, before.View, after.View, "a rejected action must not change the hand")
	require.NotEmpty(t, after.Logs)
	assert.True(t, strings.HasPrefix(after.Logs[0].Text, "Rejected:"), after.Logs[0].Text)
}

func TestLogsAreNewestFirstAndBounded(t *testing.T) {
	t.Parallel()

	s, clock := newMockSession(t, botsOnly)
	for range 20 {
		if err := s.StartHand(); err != nil {
			break
		}
	}

	v := s.Snapshot()
	assert.Len(t, v.Logs, MaxLogEntries)
	for _, entry := range v.Logs {
		assert.True(t, entry.Time.Equal(clock.Now()), "log entries are stamped from the clock")
	}

	var sawNewHand bool
	for _, entry := range v.Logs {
		if strings.HasPrefix(entry.Text, "New hand") {
			sawNewHand = true
		}
		assert.NotContains(t, entry.Text, ": dealt", "spectators do not see hole cards")
	}
	assert.True(t, sawNewHand)
}

func TestBotTablePlaysUntilOneStackRemains(t *testing.T) {
	t.Parallel()

	shove := policy.Func(func(game.View, *rand.Rand) game.Action { return game.Action{Kind: game.AllIn} })
	s, _ := newMockSession(t, func(c *config.Config) {
		botsOnly(c)
		c.Table.StartingChips = 200
	}, WithPolicy(shove))

	var err error
	hands := 0
	for ; hands < 500; hands++ {
		if err = s.StartHand(); err != nil {
			break
		}
		require.False(t, s.InHand(), "bot-only hands finish inline")
		assert.Equal(t, 600, chipTotal(s.Snapshot()))
	}

	require.ErrorIs(t, err, ErrGameOver)
	assert.ErrorIs(t, err, game.ErrInsufficientPlayers)

	over, ok := s.GameOver()
	require.True(t, ok)
	assert.Equal(t, OutcomeFinished, over.Outcome)
	assert.GreaterOrEqual(t, over.Winner, 0)
	assert.Equal(t, hands, over.Hands)
	assert.Len(t, s.ChipHistory(), hands+1)

	v := s.Snapshot()
	assert.Equal(t, 600, v.Players[over.Winner].Chips)
}

func TestHumanGameOver(t *testing.T) {
	t.Parallel()

	shove := policy.Func(func(game.View, *rand.Rand) game.Action { return game.Action{Kind: game.AllIn} })
	s, _ := newMockSession(t, func(c *config.Config) {
		instant(c)
		c.Table.Seats = 2
		c.Table.StartingChips = 100
	}, WithPolicy(shove))

	for hands := 0; hands < 200; hands++ {
		if err := s.StartHand(); err != nil {
			require.ErrorIs(t, err, ErrGameOver)
			break
		}
		for s.InHand() {
			v := s.Snapshot()
			require.NoError(t, s.SubmitAction(v.HumanSeat, game.Action{Kind: game.AllIn}))
		}
	}

	over, ok := s.GameOver()
	require.True(t, ok)
	v := s.Snapshot()
	switch over.Outcome {
	case OutcomeWon:
		assert.Equal(t, 200, v.Players[0].Chips)
		assert.Contains(t, v.Logs[0].Text, "you won")
	case OutcomeLost:
		assert.Equal(t, 0, v.Players[0].Chips)
		assert.Contains(t, v.Logs[0].Text, "out of chips")
	default:
		t.Fatalf("unexpected outcome %v", over.Outcome)
	}
	require.NotNil(t, v.GameOver)
	assert.ErrorIs(t, s.StartHand(), ErrGameOver, "game over is terminal")

	s.Reset()
	_, ok = s.GameOver()
	assert.False(t, ok)
	assert.Equal(t, 0, s.HandNumber())
	assert.Len(t, s.ChipHistory(), 1)
	require.NoError(t, s.StartHand())
}

func TestResetCancelsScheduledTurn(t *testing.T) {
	t.Parallel()

	s, clock := newMockSession(t, func(c *config.Config) { c.Table.Seats = 6 })
	for range 6 {
		require.NoError(t, s.StartHand())
		v := s.Snapshot()
		if v.ActiveSeat != v.HumanSeat {
			break
		}
		require.NoError(t, s.SubmitAction(0, game.Action{Kind: game.Fold}))
		runOpponents(t, s, clock)
	}
	_, ok := clock.Peek()
	require.True(t, ok)

	s.Reset()
	_, ok = clock.Peek()
	assert.False(t, ok, "reset stops the pending opponent turn")
	assert.False(t, s.InHand())
}

func TestSeededSessionsReplay(t *testing.T) {
	t.Parallel()

	play := func() []ChipPoint {
		s, _ := newMockSession(t, func(c *config.Config) {
			botsOnly(c)
			c.Table.Seats = 4
		}, WithRand(randutil.New(99)))
		for range 25 {
			if err := s.StartHand(); err != nil {
				break
			}
		}
		return s.ChipHistory()
	}

	assert.Equal(t, play(), play())
}

func TestSubscribersReceiveEvents(t *testing.T) {
	t.Parallel()

	s, _ := newMockSession(t, botsOnly)
	var types []game.EventType
	s.Subscribe(game.EventSubscriberFunc(func(e game.GameEvent) {
		types = append(types, e.EventType())
	}))

	require.NoError(t, s.StartHand())
	require.NotEmpty(t, types)
	assert.Equal(t, game.EventTypeHandStart, types[0])
	assert.Equal(t, game.EventTypeHandEnd, types[len(types)-1])
}

func TestStartHandErrorWraps(t *testing.T) {
	t.Parallel()

	s, _ := newMockSession(t, botsOnly)
	s.mu.Lock()
	for _, p := range s.players[1:] {
		p.Chips = 0
	}
	s.mu.Unlock()

	err := s.StartHand()
	assert.True(t, errors.Is(err, ErrGameOver) && errors.Is(err, game.ErrInsufficientPlayers))
}

func TestIllegalOpponentActionFallsBackToFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		action game.Action
	}{
		{"check facing a bet", game.Action{Kind: game.Check}},
		{"raise beyond the stack", game.Action{Kind: game.Raise, Amount: 1_000_000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stubborn := policy.Func(func(game.View, *rand.Rand) game.Action { return tt.action })
			s, _ := newMockSession(t, botsOnly, WithPolicy(stubborn))

			var start game.HandStartEvent
			var acted []game.PlayerActionEvent
			s.Subscribe(game.EventSubscriberFunc(func(e game.GameEvent) {
				switch e := e.(type) {
				case game.HandStartEvent:
					start = e
				case game.PlayerActionEvent:
					acted = append(acted, e)
				}
			}))

			require.NoError(t, s.StartHand())
			assert.False(t, s.InHand(), "hand must not stall")

			require.Len(t, acted, 2)
			for _, a := range acted {
				assert.Equal(t, game.Fold, a.Action.Kind, "seat %d owed chips", a.Seat)
				assert.NotEqual(t, start.BigBlindSeat, a.Seat)
			}

			summary, ok := s.RoundSummary()
			require.True(t, ok)
			assert.False(t, summary.Showdown)
			require.Len(t, summary.Winners, 1)
			assert.Equal(t, start.BigBlindSeat, summary.Winners[0].Seat)
			assert.Equal(t, 30, summary.Winners[0].Amount)
			assert.Equal(t, 3000, chipTotal(s.Snapshot()))
		})
	}
}

func TestSubmitActionForOpponentSeatIsRejected(t *testing.T) {
	t.Parallel()

	s, _ := newMockSession(t, nil)
	require.NoError(t, s.StartHand())
	require.True(t, s.InHand())

	before := s.Snapshot()
	err := s.SubmitAction(1, game.Action{Kind: game.Fold})
	require.ErrorIs(t, err, game.ErrOutOfTurn)

	var actionErr *game.ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, 1, actionErr.Seat)
	assert.Equal(t, "seat is not controlled by a player", actionErr.Reason)
	assert.Equal(t, before.Players, s.Snapshot().Players)
}
