// Package table runs a single table of consecutive hands: it seats the
// players, starts each hand, drives the scripted opponents on a clock and
// keeps the history a host needs to render the game.
package table

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/handid"
	"github.com/lox/holdem-table/internal/policy"
	"github.com/lox/holdem-table/internal/randutil"
	"github.com/lox/holdem-table/poker"
)

var (
	// ErrGameOver is returned by StartHand once the game has been decided.
	ErrGameOver = errors.New("game over")
	// ErrNoHand is returned when an action arrives between hands.
	ErrNoHand = errors.New("no hand in progress")
	// ErrHandInProgress is returned by StartHand while a hand is running.
	ErrHandInProgress = errors.New("hand in progress")
)

// Session owns the players and plays hands one after another. All methods
// are safe for concurrent use; events are published to subscribers after
// the session's lock is released.
type Session struct {
	mu sync.Mutex

	seats         int
	blinds        game.Blinds
	startingChips int
	thinkDelay    time.Duration
	humanSeat     int
	humanName     string

	clock     quartz.Clock
	rng       *rand.Rand
	logger    *log.Logger
	policy    policy.Policy
	evaluate  poker.EvaluateFunc
	ids       *handid.Generator
	bus       *game.SimpleEventBus
	queue     *game.EventQueue
	formatter *game.EventFormatter

	players    []*game.Player
	hand       *game.Hand
	dealer     int
	handNumber int
	summary    *RoundSummary
	history    []ChipPoint
	logs       []LogEntry
	gameOver   *GameOver

	// turn invalidates scheduled opponent turns that have been overtaken.
	turn  uint64
	timer *quartz.Timer
}

// New creates a session from cfg and seats a fresh game.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Session{
		seats:         cfg.Table.Seats,
		blinds:        game.Blinds{Small: cfg.Table.SmallBlind, Big: cfg.Table.BigBlind},
		startingChips: cfg.Table.StartingChips,
		thinkDelay:    cfg.ThinkDelayDuration(),
		humanSeat:     cfg.Player.Seat,
		humanName:     cfg.Player.Name,
		bus:           game.NewEventBus(),
		queue:         &game.EventQueue{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.rng == nil {
		s.rng = randutil.New(randutil.Seed(cfg.Table.Seed))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.WithPrefix("table")
	if s.evaluate == nil {
		cache, err := poker.NewCache(poker.DefaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create evaluator cache: %w", err)
		}
		s.evaluate = cache.Evaluate
	}
	if s.policy == nil {
		p, err := policy.New(cfg.Opponents.Strategy, s.evaluate, s.logger)
		if err != nil {
			return nil, err
		}
		s.policy = p
	}
	s.ids = handid.NewGenerator(randutil.Reader(s.rng))
	s.formatter = game.NewEventFormatter(game.FormattingOptions{Perspective: s.humanSeat})

	s.seat()
	return s, nil
}

// seat resets the table to a new game. The caller holds the lock or owns s.
func (s *Session) seat() {
	s.players = make([]*game.Player, s.seats)
	bot := 1
	for i := range s.players {
		if i == s.humanSeat {
			p := game.NewPlayer(i, s.humanName, s.startingChips)
			p.Human = true
			s.players[i] = p
			continue
		}
		s.players[i] = game.NewPlayer(i, fmt.Sprintf("Bot %d", bot), s.startingChips)
		bot++
	}

	// The first Start moves the button one seat on from here.
	s.dealer = s.rng.IntN(s.seats)
	s.hand = nil
	s.handNumber = 0
	s.summary = nil
	s.gameOver = nil
	s.logs = nil
	s.history = []ChipPoint{{Hand: 0, Chips: s.stacks()}}
	s.cancelTurn()
}

// Reset abandons the current game and seats a new one
func (s *Session) Reset() {
	s.mu.Lock()
	s.seat()
	s.appendLog("New game started")
	s.mu.Unlock()
	s.logger.Info("Game reset")
}

// Close stops any scheduled opponent turn
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTurn()
}

// Subscribe registers a subscriber for game events
func (s *Session) Subscribe(sub game.EventSubscriber) {
	s.bus.Subscribe(sub)
}

// Unsubscribe removes a subscriber
func (s *Session) Unsubscribe(sub game.EventSubscriber) {
	s.bus.Unsubscribe(sub)
}

// StartHand deals the next hand. It returns ErrGameOver once the human seat
// is broke or has taken every chip, and ErrHandInProgress if the current
// hand has not finished.
func (s *Session) StartHand() error {
	s.mu.Lock()
	events, err := s.startHand()
	s.mu.Unlock()

	s.publish(events)
	return err
}

func (s *Session) startHand() ([]game.GameEvent, error) {
	if s.gameOver != nil {
		return nil, gameOverError(s.gameOver)
	}
	if s.hand != nil && !s.hand.IsComplete() {
		return nil, ErrHandInProgress
	}
	if over := s.checkGameOver(); over != nil {
		s.endGame(over)
		return nil, gameOverError(over)
	}

	id, err := s.ids.Next()
	if err != nil {
		return nil, err
	}

	h := game.NewHand(s.rng, s.players, s.dealer, s.blinds,
		game.WithHandID(id),
		game.WithClock(s.clock),
		game.WithEvaluator(s.evaluate),
		game.WithPublisher(s.queue))
	if err := h.Start(); err != nil {
		s.queue.Drain()
		return nil, fmt.Errorf("start hand %d: %w", s.handNumber+1, err)
	}

	s.handNumber++
	s.hand = h
	s.dealer = h.Dealer
	s.summary = nil
	s.logger.Info("Hand started", "hand", s.handNumber, "id", id, "dealer", h.Dealer)

	return s.advance(), nil
}

// SubmitAction applies an action for a seat controlled by a person. Seats
// played by the table are rejected as out of turn.
func (s *Session) SubmitAction(seat int, action game.Action) error {
	s.mu.Lock()
	events, err := s.submit(seat, action)
	s.mu.Unlock()

	s.publish(events)
	return err
}

func (s *Session) submit(seat int, action game.Action) ([]game.GameEvent, error) {
	if s.hand == nil || s.hand.IsComplete() {
		return nil, ErrNoHand
	}
	if seat < 0 || seat >= len(s.players) || !s.players[seat].Human {
		err := game.NewActionError(seat, action, game.ErrOutOfTurn, "seat is not controlled by a player")
		s.rejected(err)
		return nil, err
	}
	if err := s.hand.Apply(seat, action); err != nil {
		s.rejected(err)
		return nil, err
	}
	return s.advance(), nil
}

func (s *Session) rejected(err error) {
	s.logger.Warn("Rejected action", "error", err)
	s.appendLog(fmt.Sprintf("Rejected: %v", err))
}

// advance records what the last mutation produced and moves the table on:
// finishing the hand, scheduling the next opponent turn, or playing it
// inline when there is no think delay.
func (s *Session) advance() []game.GameEvent {
	var events []game.GameEvent
	for {
		events = append(events, s.record(s.queue.Drain())...)

		h := s.hand
		if h.IsComplete() {
			s.finish()
			return events
		}
		p := h.ActivePlayer()
		if p == nil || p.Human {
			return events
		}
		if s.thinkDelay > 0 {
			s.schedule(h.ID, h.ActiveSeat)
			return events
		}
		s.playOpponent(h.ActiveSeat)
	}
}

func (s *Session) schedule(handID string, seat int) {
	s.cancelTurn()
	token := s.turn
	s.timer = s.clock.AfterFunc(s.thinkDelay, func() {
		s.opponentTurn(token, handID, seat)
	}, "table", "opponent")
}

func (s *Session) cancelTurn() {
	s.turn++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// opponentTurn runs when a scheduled think delay expires. A turn that has
// been overtaken by a reset or a later schedule does nothing.
func (s *Session) opponentTurn(token uint64, handID string, seat int) {
	s.mu.Lock()
	if token != s.turn || s.hand == nil || s.hand.ID != handID || s.hand.ActiveSeat != seat {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.playOpponent(seat)
	events := s.advance()
	s.mu.Unlock()

	s.publish(events)
}

func (s *Session) playOpponent(seat int) {
	action := s.policy.Decide(s.hand.View(seat), s.rng)
	s.logger.Debug("Opponent decided", "seat", seat, "action", action)

	if err := s.hand.Apply(seat, action); err != nil {
		// A policy must never stall the table.
		s.logger.Warn("Opponent action rejected, folding", "seat", seat, "action", action, "error", err)
		fallback := game.Action{Kind: game.Check}
		if s.hand.View(seat).ToCall() > 0 {
			fallback = game.Action{Kind: game.Fold}
		}
		if err := s.hand.Apply(seat, fallback); err != nil {
			s.logger.Error("Fallback action rejected", "seat", seat, "error", err)
			if err := s.hand.Apply(seat, game.Action{Kind: game.Fold}); err != nil {
				s.logger.Error("Fold rejected, table may be stuck", "seat", seat, "error", err)
			}
		}
	}
}

// finish stores the summary and chip history for a resolved hand and
// checks whether the game is over.
func (s *Session) finish() {
	if s.summary != nil {
		return
	}
	s.cancelTurn()
	s.summary = newRoundSummary(s.handNumber, s.hand.Result)
	s.history = append(s.history, ChipPoint{Hand: s.handNumber, Chips: s.stacks()})
	s.logger.Info("Hand finished", "hand", s.handNumber, "pot", s.summary.Pot, "showdown", s.summary.Showdown)

	if over := s.checkGameOver(); over != nil {
		s.endGame(over)
	}
}

func (s *Session) checkGameOver() *GameOver {
	funded := 0
	winner := -1
	for i, p := range s.players {
		if p.Chips > 0 {
			funded++
			winner = i
		}
	}
	if funded > 1 {
		winner = -1
	}

	switch {
	case s.humanSeat >= 0 && s.players[s.humanSeat].Chips == 0:
		return &GameOver{Outcome: OutcomeLost, Winner: winner, Hands: s.handNumber}
	case s.humanSeat >= 0 && funded == 1:
		return &GameOver{Outcome: OutcomeWon, Winner: s.humanSeat, Hands: s.handNumber}
	case s.humanSeat < 0 && funded < 2:
		return &GameOver{Outcome: OutcomeFinished, Winner: winner, Hands: s.handNumber}
	}
	return nil
}

func gameOverError(over *GameOver) error {
	if over.Outcome == OutcomeFinished {
		return fmt.Errorf("%w: %w", ErrGameOver, game.ErrInsufficientPlayers)
	}
	return fmt.Errorf("%w: %s", ErrGameOver, over.Outcome)
}

func (s *Session) endGame(over *GameOver) {
	if s.gameOver != nil {
		return
	}
	s.gameOver = over
	switch over.Outcome {
	case OutcomeWon:
		s.appendLog("Game over: you won every chip")
	case OutcomeLost:
		s.appendLog("Game over: you are out of chips")
	default:
		if over.Winner >= 0 {
			s.appendLog(fmt.Sprintf("Game over: %s wins the table", s.players[over.Winner].Name))
		} else {
			s.appendLog("Game over")
		}
	}
	s.logger.Info("Game over", "outcome", over.Outcome, "winner", over.Winner, "hands", over.Hands)
}

// record turns events into log lines and returns them for publishing.
func (s *Session) record(events []game.GameEvent) []game.GameEvent {
	for _, e := range events {
		for _, line := range s.formatter.Format(e) {
			s.appendLogAt(e.Timestamp(), line)
		}
	}
	return events
}

func (s *Session) appendLog(text string) {
	s.appendLogAt(s.clock.Now(), text)
}

// appendLogAt prepends an entry, keeping the newest MaxLogEntries.
func (s *Session) appendLogAt(t time.Time, text string) {
	s.logs = append([]LogEntry{{Time: t, Text: text}}, s.logs...)
	if len(s.logs) > MaxLogEntries {
		s.logs = s.logs[:MaxLogEntries]
	}
}

func (s *Session) publish(events []game.GameEvent) {
	for _, e := range events {
		s.bus.Publish(e)
	}
}

func (s *Session) stacks() []int {
	chips := make([]int, len(s.players))
	for i, p := range s.players {
		chips[i] = p.Chips
	}
	return chips
}

// Snapshot returns the table as the human seat sees it
func (s *Session) Snapshot() TableView {
	return s.SnapshotFor(s.humanSeat)
}

// SnapshotFor returns the table as seat sees it. Seat -1 is a spectator.
func (s *Session) SnapshotFor(seat int) TableView {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.hand
	if h == nil {
		h = game.NewHand(s.rng, s.players, s.dealer, s.blinds)
	}
	tv := TableView{
		View:       h.View(seat),
		HandNumber: s.handNumber,
		HumanSeat:  s.humanSeat,
		Logs:       append([]LogEntry(nil), s.logs...),
	}
	if s.summary != nil {
		summary := *s.summary
		tv.Summary = &summary
	}
	if s.gameOver != nil {
		over := *s.gameOver
		tv.GameOver = &over
	}
	return tv
}

// RoundSummary returns the result of the last hand. It is unavailable
// while a hand is running and before the first hand finishes.
func (s *Session) RoundSummary() (RoundSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return RoundSummary{}, false
	}
	return *s.summary, true
}

// ChipHistory returns every seat's stack after each hand
func (s *Session) ChipHistory() []ChipPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChipPoint, len(s.history))
	for i, p := range s.history {
		out[i] = ChipPoint{Hand: p.Hand, Chips: append([]int(nil), p.Chips...)}
	}
	return out
}

// GameOver returns the final outcome once the game is decided
func (s *Session) GameOver() (GameOver, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver == nil {
		return GameOver{}, false
	}
	return *s.gameOver, true
}

// HandNumber returns the number of hands started this game
func (s *Session) HandNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handNumber
}

// InHand reports whether a hand is being played
func (s *Session) InHand() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hand != nil && !s.hand.IsComplete()
}

// Blinds returns the table stakes
func (s *Session) Blinds() game.Blinds {
	return s.blinds
}
