package handhistory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/game"
)

// maxFailures is the number of consecutive failed writes after which the
// recorder stops writing.
const maxFailures = 3

// Options configures a Recorder
type Options struct {
	// Path is the .phhs file hands are appended to.
	Path  string
	Table string
	// HideHoleCards writes ???? for hole cards not shown at showdown.
	HideHoleCards bool
	Logger        *log.Logger
}

// Recorder subscribes to table events and appends each finished hand to a
// PHH file as a numbered section.
type Recorder struct {
	opts   Options
	logger *log.Logger

	mu       sync.Mutex
	current  *handState
	pending  []*History
	section  int
	written  int
	failures int
	disabled bool
}

type handState struct {
	history *History
	// index maps a table seat to its position in the history, or -1.
	index     []int
	holes     map[int]string
	boardLen  int
	streetBet int
}

func (s *handState) player(seat int) int {
	if seat < 0 || seat >= len(s.index) {
		return -1
	}
	return s.index[seat]
}

// NewRecorder opens a recorder appending to opts.Path. Section numbering
// continues from any hands already in the file.
func NewRecorder(opts Options) (*Recorder, error) {
	if opts.Path == "" {
		return nil, errors.New("handhistory: path is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if dir := filepath.Dir(opts.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("handhistory: create dir: %w", err)
		}
	}

	last, err := lastSection(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("handhistory: read sections: %w", err)
	}

	return &Recorder{
		opts:    opts,
		logger:  opts.Logger.WithPrefix("history"),
		section: last,
	}, nil
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	r.mu.Lock()
	if r.disabled {
		r.mu.Unlock()
		return
	}

	finished := false
	switch e := event.(type) {
	case game.HandStartEvent:
		r.start(e)
	case game.BlindPostedEvent:
		if r.current != nil {
			r.current.streetBet = max(r.current.streetBet, e.Amount)
		}
	case game.PlayerActionEvent:
		r.action(e)
	case game.StreetChangeEvent:
		r.street(e)
	case game.HandEndEvent:
		finished = r.end(e)
	}
	r.mu.Unlock()

	if finished {
		if err := r.Flush(); err != nil {
			r.logger.Warn("Failed to write hand history", "path", r.opts.Path, "error", err)
		}
	}
}

func (r *Recorder) start(e game.HandStartEvent) {
	var dealt []game.SeatInfo
	for _, s := range e.Seats {
		if len(s.Hole) > 0 {
			dealt = append(dealt, s)
		}
	}
	if len(dealt) == 0 {
		r.current = nil
		return
	}

	// PHH lists players from the small blind round to the button.
	first := 0
	for i, s := range dealt {
		if s.Seat == e.SmallBlindSeat {
			first = i
		}
	}
	ordered := append(append([]game.SeatInfo(nil), dealt[first:]...), dealt[:first]...)

	n := len(ordered)
	h := &History{
		Variant:           defaultVariant,
		Table:             r.opts.Table,
		SeatCount:         len(e.Seats),
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            e.Blinds.Big,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            e.HandID,
		Timestamp:         e.Timestamp(),
	}
	state := &handState{
		history: h,
		index:   make([]int, len(e.Seats)),
		holes:   map[int]string{},
	}
	for i := range state.index {
		state.index[i] = -1
	}

	for pos, s := range ordered {
		state.index[s.Seat] = pos
		h.Seats[pos] = s.Seat + 1
		h.StartingStacks[pos] = s.Chips
		h.FinishingStacks[pos] = s.Chips
		h.Players[pos] = s.Name
		state.holes[s.Seat] = FormatCards(s.Hole)

		cards := state.holes[s.Seat]
		if r.opts.HideHoleCards {
			cards = strings.Repeat("?", 2*len(s.Hole))
		}
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", pos+1, cards))
	}
	if pos := state.player(e.SmallBlindSeat); pos >= 0 {
		h.BlindsOrStraddles[pos] = e.Blinds.Small
	}
	if pos := state.player(e.BigBlindSeat); pos >= 0 {
		h.BlindsOrStraddles[pos] = e.Blinds.Big
	}
	r.current = state
}

func (r *Recorder) action(e game.PlayerActionEvent) {
	state := r.current
	if state == nil || state.history.HandID != e.HandID {
		return
	}
	pos := state.player(e.Seat)
	if pos < 0 {
		return
	}
	state.history.Actions = append(state.history.Actions, FormatAction(pos, e.Action, e.BetTo, state.streetBet))
	state.streetBet = max(state.streetBet, e.BetTo)
}

func (r *Recorder) street(e game.StreetChangeEvent) {
	state := r.current
	if state == nil || state.history.HandID != e.HandID {
		return
	}
	if len(e.Board) > state.boardLen {
		state.history.Actions = append(state.history.Actions, "d db "+FormatCards(e.Board[state.boardLen:]))
		state.boardLen = len(e.Board)
	}
	state.streetBet = 0
}

func (r *Recorder) end(e game.HandEndEvent) bool {
	state := r.current
	if state == nil || state.history.HandID != e.HandID {
		return false
	}
	h := state.history
	res := e.Result

	for _, shown := range res.Shown {
		if pos := state.player(shown.Seat); pos >= 0 {
			h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", pos+1, FormatCards(shown.Hole)))
		}
	}
	for seat, net := range res.NetChange {
		if pos := state.player(seat); pos >= 0 {
			h.FinishingStacks[pos] = h.StartingStacks[pos] + net
		}
	}
	for _, w := range res.Winners {
		if pos := state.player(w.Seat); pos >= 0 {
			h.Winnings[pos] += w.Amount
		}
	}

	h.stampTime()
	r.pending = append(r.pending, h)
	r.current = nil
	return true
}

// Flush writes pending hands. The file is rewritten atomically with the
// new sections appended.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disabled || len(r.pending) == 0 {
		return nil
	}

	err := r.write()
	if err == nil {
		r.failures = 0
		return nil
	}

	r.failures++
	if r.failures >= maxFailures {
		r.logger.Error("Disabling hand history after repeated failures", "dropped", len(r.pending), "error", err)
		r.pending = nil
		r.disabled = true
	}
	return err
}

func (r *Recorder) write() error {
	existing, err := os.ReadFile(r.opts.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	var buf bytes.Buffer
	buf.Write(existing)
	section := r.section
	for _, h := range r.pending {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		section++
		fmt.Fprintf(&buf, "[%d]\n", section)
		if err := Encode(&buf, h); err != nil {
			return err
		}
	}

	if err := writeFileAtomic(r.opts.Path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	r.written += len(r.pending)
	r.logger.Debug("Wrote hand history", "path", r.opts.Path, "hands", len(r.pending), "section", section)
	r.section = section
	r.pending = nil
	return nil
}

// Close flushes remaining hands
func (r *Recorder) Close() error {
	return r.Flush()
}

// Written returns the number of hands written by this recorder
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Disabled reports whether writing stopped after repeated failures
func (r *Recorder) Disabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disabled
}

func lastSection(path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	last := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) >= 3 && line[0] == '[' && line[len(line)-1] == ']' {
			if n, err := strconv.Atoi(line[1 : len(line)-1]); err == nil && n > last {
				last = n
			}
		}
	}
	return last, scanner.Err()
}

// ReadFile decodes every section of a .phhs file, keyed by section number.
func ReadFile(path string) (map[int]*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sections map[string]History
	if _, err := toml.Decode(string(data), &sections); err != nil {
		return nil, fmt.Errorf("handhistory: decode %s: %w", path, err)
	}
	out := make(map[int]*History, len(sections))
	for key, h := range sections {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("handhistory: section %q is not numbered", key)
		}
		out[n] = &h
	}
	return out, nil
}
