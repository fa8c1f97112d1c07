package statistics

import (
	"sync"

	"github.com/lox/holdem-table/internal/game"
)

// Collector builds per-seat statistics from table events. It implements
// game.EventSubscriber.
type Collector struct {
	mu    sync.Mutex
	seats map[int]*Statistics
	names map[int]string

	hand   string
	blinds game.Blinds
	// position and dealt are indexed by seat for the current hand.
	position []int
	dealt    []bool
	street   game.Stage
}

// NewCollector returns an empty collector
func NewCollector() *Collector {
	return &Collector{
		seats: map[int]*Statistics{},
		names: map[int]string{},
	}
}

// OnEvent implements game.EventSubscriber
func (c *Collector) OnEvent(event game.GameEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := event.(type) {
	case game.HandStartEvent:
		c.start(e)
	case game.StreetChangeEvent:
		if e.HandID == c.hand {
			c.street = e.Stage
		}
	case game.HandEndEvent:
		if e.HandID == c.hand {
			c.end(e.Result)
		}
	}
}

func (c *Collector) start(e game.HandStartEvent) {
	n := len(e.Seats)
	c.hand = e.HandID
	c.blinds = e.Blinds
	c.street = game.PreFlop
	c.position = make([]int, n)
	c.dealt = make([]bool, n)

	pos := 0
	for i := 1; i <= n; i++ {
		s := e.Seats[(e.Dealer+i)%n]
		if len(s.Hole) == 0 {
			continue
		}
		pos++
		c.position[s.Seat] = pos
		c.dealt[s.Seat] = true
		c.names[s.Seat] = s.Name
	}
}

func (c *Collector) end(r game.Result) {
	bb := float64(max(c.blinds.Big, 1))
	for seat, net := range r.NetChange {
		if seat >= len(c.dealt) || !c.dealt[seat] {
			continue
		}
		stats, ok := c.seats[seat]
		if !ok {
			stats = &Statistics{}
			c.seats[seat] = stats
		}
		stats.Add(HandResult{
			NetBB:          float64(net) / bb,
			Position:       c.position[seat],
			WentToShowdown: r.Showdown && shown(r, seat),
			Won:            r.IsWinner(seat),
			PotChips:       r.Pot,
			PotBB:          float64(r.Pot) / bb,
			StreetReached:  c.street,
		})
	}
	c.hand = ""
}

func shown(r game.Result, seat int) bool {
	for _, s := range r.Shown {
		if s.Seat == seat {
			return true
		}
	}
	return false
}

// Seat returns a copy of one seat's statistics
func (c *Collector) Seat(seat int) (Statistics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.seats[seat]
	if !ok {
		return Statistics{}, false
	}
	out := *s
	out.Values = append([]float64(nil), s.Values...)
	return out, true
}

// Name returns the last name seen at seat
func (c *Collector) Name(seat int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.names[seat]
}

// MergeInto adds every seat's statistics to dst, keyed by seat
func (c *Collector) MergeInto(dst map[int]*Statistics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for seat, s := range c.seats {
		if dst[seat] == nil {
			dst[seat] = &Statistics{}
		}
		dst[seat].Merge(s)
	}
}
